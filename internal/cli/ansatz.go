package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"qchemd/internal/circuit"
	"qchemd/internal/initialstate"
	"qchemd/internal/varform"
)

func newAnsatzCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ansatz",
		Short: "Build variational form circuits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("ansatz requires a subcommand: ry")
		},
	}
	cmd.AddCommand(newAnsatzRYCmd())
	return cmd
}

func newAnsatzRYCmd() *cobra.Command {
	var (
		qubits          int
		depth           int
		entanglement    string
		gate            string
		skipUnentangled bool
		zeroState       bool
		params          string
		prefix          string
	)
	cmd := &cobra.Command{
		Use:   "ry",
		Short: "Print the RY ansatz setting and its OpenQASM circuit",
		Long: "Print the RY ansatz setting and its OpenQASM circuit.\n\n" +
			"With --params the circuit is bound to those values; without, the\n" +
			"symbolic circuit is printed.",
		Example: "  qchemd ansatz ry --qubits 4 --depth 2 --entanglement linear\n" +
			"  qchemd ansatz ry --qubits 2 --depth 1 --params 0.1,0.2,0.3,0.4",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ryOpts := []varform.RYOption{
				varform.WithDepth(depth),
				varform.WithEntanglement(entanglement),
				varform.WithEntanglementGate(gate),
				varform.WithSkipUnentangledQubits(skipUnentangled),
			}
			if zeroState {
				z, err := initialstate.NewZero(qubits)
				if err != nil {
					return err
				}
				ryOpts = append(ryOpts, varform.WithInitialState(z))
			}
			form, err := varform.NewRY(qubits, ryOpts...)
			if err != nil {
				return err
			}
			values, err := parseFloats(params)
			if err != nil {
				return err
			}
			return printAnsatz(cmd.OutOrStdout(), form, values, prefix)
		},
	}
	f := cmd.Flags()
	f.IntVar(&qubits, "qubits", 2, "Number of qubits")
	f.IntVar(&depth, "depth", 3, "Number of entangling blocks")
	f.StringVar(&entanglement, "entanglement", "full", "Entangler map: full|linear")
	f.StringVar(&gate, "gate", varform.GateCZ, "Entangling gate: cz|cx")
	f.BoolVar(&skipUnentangled, "skip-unentangled", false, "Skip rotations on qubits outside the entangler map")
	f.BoolVar(&zeroState, "zero-state", false, "Prepend the all-zero initial state")
	f.StringVar(&params, "params", "", "Comma-separated parameter values")
	f.StringVar(&prefix, "prefix", "", "Symbol prefix for the symbolic circuit (default θ)")
	return cmd
}

func printAnsatz(w io.Writer, form *varform.RY, values []float64, prefix string) error {
	fmt.Fprint(w, varform.Setting(form))
	var (
		c   *circuit.Circuit
		err error
	)
	if values == nil {
		c, err = form.ConstructParameterizedCircuit(prefix, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, c.String())
		return nil
	}
	c, err = form.ConstructCircuit(values, nil)
	if err != nil {
		return err
	}
	qasm, err := c.QASM()
	if err != nil {
		return err
	}
	fmt.Fprint(w, qasm)
	return nil
}

func parseFloats(s string) ([]float64, error) {
	parts := splitCSV(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
