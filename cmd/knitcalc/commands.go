package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"avyyan/internal/service"
	"avyyan/internal/textile"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newCounterCmd() *cobra.Command {
	var in textile.CounterInput
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Machine counter: (169300 × count × roll-per-kg) / (needle × feeder × stitch-length)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), textile.Counter(in))
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.Count, "count", 0, "yarn count")
	f.Float64Var(&in.RollPerKg, "roll-per-kg", 0, "roll weight in kg")
	f.Float64Var(&in.Needle, "needle", 0, "needles on the machine")
	f.Float64Var(&in.Feeder, "feeder", 0, "feeders on the machine")
	f.Float64Var(&in.StitchLength, "stitch-length", 0, "stitch length in mm")
	return cmd
}

func newRollsCmd() *cobra.Command {
	var quantity, rollPerKg float64
	cmd := &cobra.Command{
		Use:   "rolls",
		Short: "Split a quantity into whole rolls and a partial roll",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rollPerKg <= 0 {
				return errors.New("--roll-per-kg must be greater than 0")
			}
			b := textile.DecomposeRolls(quantity, rollPerKg)
			fmt.Fprintf(cmd.OutOrStdout(), "whole rolls:       %d\n", b.WholeRolls())
			fmt.Fprintf(cmd.OutOrStdout(), "fractional roll:   %s\n", textile.Fixed2(b.FractionalRoll))
			fmt.Fprintf(cmd.OutOrStdout(), "fractional weight: %s kg\n", textile.Fixed2(b.FractionalWeight))
			return nil
		},
	}
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "actual quantity in kg")
	cmd.Flags().Float64Var(&rollPerKg, "roll-per-kg", 0, "roll weight in kg")
	return cmd
}

type parseOutput struct {
	textile.Description
	ActualQuantity float64 `json:"actual_quantity"`
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <description>",
		Short: "Extract stitch length, count, roll weight, fabric and quantity from an order description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(parseOutput{
				Description:    textile.ParseDescription(text),
				ActualQuantity: textile.ExtractActualQuantity(text),
			})
		},
	}
}

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <password>",
		Short: "Print a bcrypt hash for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := bcrypt.GenerateFromPassword([]byte(args[0]), service.BcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(h))
			return nil
		},
	}
}
