package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gopherai-tutor/internal/subject"
)

var errNoCatalog = errors.New("no subjects file configured, pass --subjects-file")

func newSubjectsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List and manage tutoring subjects",
	}
	cmd.AddCommand(newSubjectsListCmd(opts), newSubjectsAddCmd(opts), newSubjectsRemoveCmd(opts))
	return cmd
}

func newSubjectsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			selected := rt.session.Selected().Name
			out := cmd.OutOrStdout()
			for _, s := range rt.session.Subjects() {
				marker := " "
				if s.Name == selected {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s %s\n", marker, rt.session.DisplayIcon(s.Name), s.Name)
				if s.Description != "" {
					fmt.Fprintf(out, "    %s\n", s.Description)
				}
			}
			return nil
		},
	}
}

func newSubjectsAddCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a custom subject to the subjects file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			subjectContext, _ := cmd.Flags().GetString("context")
			icon, _ := cmd.Flags().GetString("icon")

			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()
			if rt.catalogPath == "" {
				return errNoCatalog
			}

			added, err := rt.session.RegisterSubject(args[0], description, subjectContext, icon)
			if err != nil {
				return err
			}
			if err := subject.SaveCatalog(rt.catalogPath, rt.session.ExportSubjects()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added subject %q to %s\n", added.Name, rt.catalogPath)
			return nil
		},
	}
	cmd.Flags().String("description", "", "Short description shown in listings")
	cmd.Flags().String("context", "", "Instructions prepended to every prompt for this subject")
	cmd.Flags().String("icon", "", "Icon shown next to the subject name")
	return cmd
}

func newSubjectsRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a custom subject from the subjects file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()
			if rt.catalogPath == "" {
				return errNoCatalog
			}

			if err := rt.session.RemoveSubject(args[0]); err != nil {
				return err
			}
			if err := subject.SaveCatalog(rt.catalogPath, rt.session.ExportSubjects()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed subject %q\n", args[0])
			return nil
		},
	}
}
