// Package cli es la interfaz de terminal del punto de venta: vistas de
// vendedor y de caja sobre los flujos de la aplicación.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/stylashop-pos/internal/application/feedback"
)

// errQuit el usuario pidió salir de la vista.
var errQuit = errors.New("salir")

// Console entrada y salida de la terminal.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole envuelve la entrada y la salida.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Printf escribe en la salida.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// ReadLine lee una línea sin espacios sobrantes. Fin de entrada → io.EOF.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prompt != "" {
		fmt.Fprint(c.out, prompt)
	}
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Notify muestra el aviso correspondiente a err.
func (c *Console) Notify(err error) {
	n := feedback.FromError(err)
	if n.Title == "" {
		return
	}
	c.Printf("[%s] %s: %s\n", n.Severity, n.Title, n.Message)
}

// command una orden de la vista: nombre y argumentos.
type command struct {
	name string
	args []string
}

func parseCommand(line string) command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}
	}
	return command{name: strings.ToLower(fields[0]), args: fields[1:]}
}

func (c command) arg(i int) string {
	if i < len(c.args) {
		return c.args[i]
	}
	return ""
}

// loop lee órdenes hasta "salir", fin de entrada o cancelación de ctx.
func (c *Console) loop(ctx context.Context, prompt string, handle func(command) error) error {
	for {
		line, err := c.ReadLine(ctx, prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		cmd := parseCommand(line)
		if cmd.name == "" {
			continue
		}
		if cmd.name == "salir" || cmd.name == "exit" {
			return nil
		}
		if err := handle(cmd); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Notify(err)
		}
	}
}
