package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gopherai-tutor/internal/conversation"
)

func newHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the conversation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")

			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			exchanges, err := rt.service.History(cmd.Context(), rt.session.ID, filter)
			if err != nil {
				return err
			}
			if limit > 0 && len(exchanges) > limit {
				exchanges = exchanges[len(exchanges)-limit:]
			}

			out := cmd.OutOrStdout()
			if len(exchanges) == 0 {
				fmt.Fprintln(out, "No conversation history yet.")
				return nil
			}
			for i, e := range exchanges {
				fmt.Fprintf(out, "[%s] %s %s\n", conversation.FormatTimestamp(e.Timestamp), rt.session.DisplayIcon(e.Subject), e.Subject)
				fmt.Fprintf(out, "Q: %s\n", e.Question)
				fmt.Fprintf(out, "A: %s\n", e.Answer)
				if i < len(exchanges)-1 {
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("filter", "", "Only show exchanges for this subject")
	cmd.Flags().Int("limit", 0, "Show only the most recent N exchanges (0 = all)")
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show session statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			st, err := rt.service.Stats(cmd.Context(), rt.session.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Questions:  %d\n", st.Count)
			fmt.Fprintf(out, "Subjects:   %d\n", st.DistinctSubjects)
			fmt.Fprintf(out, "Duration:   %s\n", st.Duration)
			fmt.Fprintf(out, "References: %d (~%d tokens)\n", st.References, st.ReferenceTokens)
			fmt.Fprintln(out)
			fmt.Fprintln(out, st.Summary)
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the conversation as a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("out")

			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			data, name, err := rt.service.Export(cmd.Context(), rt.session.ID)
			if err != nil {
				return err
			}
			if path == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if path == "" {
				path = name
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write export failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s\n", len(data), path)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Output path, - for stdout (default: timestamped file name)")
	return cmd
}

func newClearCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the conversation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.service.ClearHistory(cmd.Context(), rt.session.ID); err != nil {
				return err
			}
			if err := rt.saveHistory(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.service.Tutor().Messages().ChatCleared)
			return nil
		},
	}
}
