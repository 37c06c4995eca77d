// FILE: lixenwraith/hiconfig/cmd/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lixenwraith/hiconfig"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// schema builds the demo tree: a car propagating its unit to two tires
// that share one tire provider.
func schema() (*hiconfig.Provider, error) {
	tire, err := hiconfig.NewProviderBuilder().
		WithValues(
			hiconfig.Value{Names: []string{"radius"}, Default: 21.0, Help: "tire radius"},
			hiconfig.Value{Names: []string{"unit"}, Default: "cm", Help: "length unit"},
			hiconfig.Value{Names: []string{"pressure"}, Default: 2.2, Help: "tire pressure in bar"},
		).
		Build()
	if err != nil {
		return nil, err
	}

	return hiconfig.NewProviderBuilder().
		WithValues(
			hiconfig.Value{Names: []string{"name", "n"}, Default: "my-car", Help: "car name"},
			hiconfig.Value{Names: []string{"verbose"}, Default: false, Help: "print the parsed namespace"},
		).
		WithPropagated(
			hiconfig.Value{Names: []string{"unit"}, Default: "cm", Choices: []string{"mm", "cm", "in"}, Help: "length unit of every part"},
		).
		WithChild("front-tire", tire).
		WithChild("rear-tire", tire).
		Build()
}

func run(out io.Writer, args []string) error {
	root, err := schema()
	if err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid configuration schema: %v", err)}
	}

	cmd := &cobra.Command{
		Use:           "car [flags]",
		Short:         "Demonstrates hierarchical configuration of a car and its tires",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetArgs(args)

	// Registered before the schema so cobra reuses it instead of adding its own.
	cmd.Flags().BoolP("version", "V", false, "print version and exit")
	cmd.Flags().String("write-template", "", "write a configuration template to `PATH` and exit")

	engine := hiconfig.WrapFlagSet(cmd.Flags())
	if _, err := root.Register(engine); err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid configuration schema: %v", err)}
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if path, _ := cmd.Flags().GetString("write-template"); path != "" {
			if err := root.WriteTemplateFile(path, hiconfig.FormatAuto); err != nil {
				return err
			}
			fmt.Fprintf(out, "template written to %s\n", path)
			return nil
		}

		ns, err := engine.Namespace()
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}

		name, _ := ns.String("name")
		front, _ := ns.Float64("[front_tire]radius")
		rear, _ := ns.Float64("[rear_tire]radius")
		unit, _ := ns.String("[front_tire]unit")
		fmt.Fprintf(out, "%s: front tire %g%s, rear tire %g%s\n", name, front, unit, rear, unit)

		if verbose, _ := ns.Bool("verbose"); verbose {
			return ns.Dump(out)
		}
		return nil
	}

	return cmd.Execute()
}
