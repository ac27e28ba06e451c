package cmd

import (
	"fmt"
	"strconv"

	"github.com/compasshq/fcx/internal/output"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <symbol-id>",
	Short: "Show details of a single symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid symbol id %q", args[0])
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	sym, err := st.GetSymbol(id)
	if err != nil {
		return err
	}
	if sym == nil {
		return fmt.Errorf("symbol %d not found", id)
	}

	rendered, err := output.RenderSymbol(sym, output.Format(outputFormat))
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}
