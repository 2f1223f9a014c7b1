package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gopherai-tutor/internal/ai"
	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/reference"
)

func newAskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask the tutor a question and append the answer to the session file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, _ := cmd.Flags().GetStringSlice("ref")

			if err := app.ValidateQuestion(args[0]); err != nil {
				return fmt.Errorf("%s", app.ValidationMessage(err))
			}

			rt, err := open(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer rt.close()

			messages := rt.service.Tutor().Messages()
			if rt.service.Tutor().ModelName() == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), messages.APIKeyMissing)
				return ai.ErrMissingAPIKey
			}
			if w := rt.service.Tutor().ModelWarning(); w != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), w)
			}

			if len(refs) > 0 {
				files, err := readSourceFiles(refs)
				if err != nil {
					return err
				}
				res := rt.session.IngestReferences(files)
				for _, o := range res.Outcomes {
					if o.Status == reference.StatusUnsupported || o.Err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", o.Name, o.Status)
					}
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d file(s)\n", res.Processed)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), messages.ThinkingFor(rt.session.Selected().Name))
			out, err := rt.service.Ask(cmd.Context(), rt.session.ID, args[0], "")
			if err != nil {
				return err
			}
			if err := rt.saveHistory(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.Answer)
			if out.Outcome != app.OutcomeSucceeded {
				return fmt.Errorf("tutor request failed: %s", out.Outcome)
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("ref", nil, "Reference files (text or PDF) to include as context")
	return cmd
}

func readSourceFiles(paths []string) ([]model.SourceFile, error) {
	files := make([]model.SourceFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read reference file failed: %w", err)
		}
		files = append(files, model.SourceFile{
			Name:     filepath.Base(p),
			MimeType: mime.TypeByExtension(filepath.Ext(p)),
			Data:     data,
			Size:     int64(len(data)),
		})
	}
	return files, nil
}
