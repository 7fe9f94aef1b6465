package main

import (
	"aviation-ops/advisor"
	"aviation-ops/models"
	"aviation-ops/workpack"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
)

var (
	workpackFile   string
	workpackFormat string
	workpackAll    bool
	workpackDraft  workpack.Draft
)

var workpackCmd = &cobra.Command{
	Use:   "workpack",
	Short: "Manage and review maintenance work packs",
}

var workpackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work packs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadWorkPacks(false)
		if err != nil {
			return err
		}
		printWorkPacks(cmd.OutOrStdout(), store.List())
		return nil
	},
}

var workpackAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a pending work pack and save the file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadWorkPacks(true)
		if err != nil {
			return err
		}
		wp, err := store.Add(workpackDraft)
		if err != nil {
			return err
		}
		if err := store.Save(workpackFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s with %d task(s)\n", wp.ID, len(wp.Tasks))
		return nil
	},
}

var workpackStatusCmd = &cobra.Command{
	Use:   "status ID approve|reject",
	Short: "Approve or reject a work pack and save the file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := workpack.ParseStatus(args[1])
		if err != nil {
			return err
		}
		store, err := loadWorkPacks(false)
		if err != nil {
			return err
		}
		wp, err := store.SetStatus(args[0], status)
		if err != nil {
			return err
		}
		if err := store.Save(workpackFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", wp.ID, wp.Status)
		return nil
	},
}

var workpackEvaluateCmd = &cobra.Command{
	Use:   "evaluate [ID...]",
	Short: "Review work packs with the Gemini advisor",
	RunE:  runWorkPackEvaluate,
}

func init() {
	workpackCmd.PersistentFlags().StringVar(&workpackFile, "file", "workpacks.yaml", "Work-pack YAML file")

	workpackAddCmd.Flags().StringVar(&workpackDraft.Title, "title", "", "Title (required)")
	workpackAddCmd.Flags().StringVar(&workpackDraft.Description, "description", "", "Description")
	workpackAddCmd.Flags().StringVar(&workpackDraft.AircraftType, "aircraft", "", "Aircraft type")
	workpackAddCmd.Flags().StringVar(&workpackDraft.CreatedBy, "created-by", "", "Author")
	workpackAddCmd.Flags().StringArrayVar(&workpackDraft.Tasks, "task", nil, "Task description (repeatable)")
	workpackAddCmd.MarkFlagRequired("title")

	workpackEvaluateCmd.Flags().BoolVar(&workpackAll, "all", false, "Evaluate every work pack")
	workpackEvaluateCmd.Flags().StringVar(&workpackFormat, "format", "text", "Output format: text|json")

	workpackCmd.AddCommand(workpackListCmd)
	workpackCmd.AddCommand(workpackAddCmd)
	workpackCmd.AddCommand(workpackStatusCmd)
	workpackCmd.AddCommand(workpackEvaluateCmd)
}

// loadWorkPacks reads the work-pack file. allowMissing starts from an empty
// store when the file does not exist yet.
func loadWorkPacks(allowMissing bool) (*workpack.Store, error) {
	store := workpack.NewStore(workpack.WithLogger(logger))
	if err := store.Load(workpackFile); err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return store, nil
		}
		return nil, err
	}
	return store, nil
}

func runWorkPackEvaluate(cmd *cobra.Command, args []string) error {
	if workpackFormat != "text" && workpackFormat != "json" {
		return fmt.Errorf("format must be one of: text, json (got: %s)", workpackFormat)
	}
	if !workpackAll && len(args) == 0 {
		return fmt.Errorf("give work pack ids or --all")
	}

	store, err := loadWorkPacks(false)
	if err != nil {
		return err
	}

	packs := store.List()
	if !workpackAll {
		packs = packs[:0]
		for _, id := range args {
			wp, err := store.Get(id)
			if err != nil {
				return err
			}
			packs = append(packs, wp)
		}
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	g, err := advisor.NewGemini(ctx, cfg.Advisor.APIKey,
		advisor.WithModel(cfg.Advisor.Model),
		advisor.WithTimeout(cfg.AdvisorTimeout()),
		advisor.WithLogger(logger))
	if err != nil {
		return err
	}

	results, err := workpack.EvaluateAll(ctx, g, packs, cfg.Advisor.Concurrency, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if workpackFormat == "json" {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(out, string(data))
		return nil
	}
	for _, r := range results {
		printEvaluation(out, r)
	}
	return nil
}

func printWorkPacks(w io.Writer, packs []models.WorkPack) {
	if len(packs) == 0 {
		fmt.Fprintln(w, "no work packs")
		return
	}
	for _, wp := range packs {
		done := 0
		for _, t := range wp.Tasks {
			if t.IsCompleted {
				done++
			}
		}
		fmt.Fprintf(w, "%s : %s ; %s ; %s ; tasks=%d/%d\n", wp.ID, wp.Title, wp.AircraftType, wp.Status, done, len(wp.Tasks))
	}
}

func printEvaluation(w io.Writer, r workpack.Result) {
	e := r.Evaluation
	fmt.Fprintf(w, "%s : score=%d/10 ; %s\n", r.WorkPackID, e.OverallScore, e.Summary)
	if r.Err != nil {
		fmt.Fprintf(w, "  ⚠️  evaluation failed: %v\n", r.Err)
	}
	for _, section := range []struct {
		title string
		items []string
	}{
		{"Positive points", e.PositivePoints},
		{"Areas for improvement", e.AreasForImprovement},
		{"Suggested modifications", e.SuggestedModifications},
		{"Safety concerns", e.SafetyConcerns},
	} {
		if len(section.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s:\n", section.title)
		fmt.Fprintf(w, "    • %s\n", strings.Join(section.items, "\n    • "))
	}
}
