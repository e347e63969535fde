package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gerritkit/internal/projects"
	"gerritkit/internal/ui"
	"gerritkit/pkg/models"
)

var (
	flagRevision    string
	flagDecode      bool
	flagAssumeYes   bool
	flagMergeSource string
	flagStrategy    string
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage project branches",
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the branches of a project",
	RunE:  runBranchList,
}

var branchCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a branch",
	Long: "Create a branch from the given revision. If the branch already\n" +
		"exists in the current listing, it is returned unchanged.",
	Args: cobra.ExactArgs(1),
	RunE: runBranchCreate,
}

var branchDeleteCmd = &cobra.Command{
	Use:   "delete [ref]",
	Short: "Delete a branch by full ref",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranchDelete,
}

var branchFileCmd = &cobra.Command{
	Use:   "file [ref] [path]",
	Short: "Print the content of a file at the branch head",
	Long: "Print the content of a file at the branch head. The server\n" +
		"returns base64; pass --decode for the raw bytes.",
	Args: cobra.ExactArgs(2),
	RunE: runBranchFile,
}

var branchReflogCmd = &cobra.Command{
	Use:   "reflog [ref]",
	Short: "Show the reflog of a branch",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranchReflog,
}

var branchMergeableCmd = &cobra.Command{
	Use:   "mergeable [ref]",
	Short: "Check whether a source is mergeable into a branch",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranchMergeable,
}

func newBranches(cmd *cobra.Command) (*projects.Branches, error) {
	gerrit, err := newGerritClient()
	if err != nil {
		return nil, err
	}
	project, err := resolveProject()
	if err != nil {
		return nil, err
	}
	return projects.NewBranches(cmd.Context(), project, gerrit)
}

func runBranchList(cmd *cobra.Command, args []string) error {
	branches, err := newBranches(cmd)
	if err != nil {
		return err
	}

	var rows []models.BranchInfo
	for branch := range branches.All() {
		rows = append(rows, branch.BranchInfo)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Branches of %s:\n\n", branches.Project)
	ui.RenderBranches(cmd.OutOrStdout(), rows)
	return nil
}

func runBranchCreate(cmd *cobra.Command, args []string) error {
	branches, err := newBranches(cmd)
	if err != nil {
		return err
	}

	branch, err := branches.Create(cmd.Context(), args[0], &models.BranchInput{Revision: flagRevision})
	if err != nil {
		return err
	}

	ui.ShowSuccess(fmt.Sprintf("%s at %s", branch.Ref, branch.Revision))
	return nil
}

func runBranchDelete(cmd *cobra.Command, args []string) error {
	branches, err := newBranches(cmd)
	if err != nil {
		return err
	}

	ref := args[0]
	if !flagAssumeYes && !ui.Confirm(fmt.Sprintf("Delete %s from %s?", ref, branches.Project)) {
		ui.ShowInfo("Aborted")
		return nil
	}

	if err := branches.Delete(cmd.Context(), ref); err != nil {
		return err
	}

	ui.ShowSuccess(fmt.Sprintf("Deleted %s", ref))
	return nil
}

func runBranchFile(cmd *cobra.Command, args []string) error {
	branches, err := newBranches(cmd)
	if err != nil {
		return err
	}

	branch, err := branches.Get(args[0])
	if err != nil {
		return err
	}

	content, err := branch.FileContent(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	if flagDecode {
		raw, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return fmt.Errorf("failed to decode file content: %w", err)
		}
		cmd.OutOrStdout().Write(raw)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), content)
	return nil
}

func runBranchReflog(cmd *cobra.Command, args []string) error {
	branches, err := newBranches(cmd)
	if err != nil {
		return err
	}

	branch, err := branches.Get(args[0])
	if err != nil {
		return err
	}

	entries, err := branch.Reflog(cmd.Context())
	if err != nil {
		return err
	}

	ui.RenderReflog(cmd.OutOrStdout(), entries)
	return nil
}

func runBranchMergeable(cmd *cobra.Command, args []string) error {
	branches, err := newBranches(cmd)
	if err != nil {
		return err
	}

	branch, err := branches.Get(args[0])
	if err != nil {
		return err
	}

	info, err := branch.MergeableInfo(cmd.Context(), &models.MergeInput{
		Source:   flagMergeSource,
		Strategy: flagStrategy,
	})
	if err != nil {
		return err
	}

	verdict := color.RedString("NOT MERGEABLE")
	if info.Mergeable {
		verdict = color.GreenString("MERGEABLE")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %s (submit type %s)\n",
		flagMergeSource, branch.Name(), verdict, info.SubmitType)
	for _, conflict := range info.Conflicts {
		fmt.Fprintf(cmd.OutOrStdout(), "  conflict: %s\n", conflict)
	}
	return nil
}

func init() {
	branchCreateCmd.Flags().StringVar(&flagRevision, "revision", "", "revision to branch from (defaults to HEAD)")
	branchDeleteCmd.Flags().BoolVarP(&flagAssumeYes, "yes", "y", false, "skip the confirmation prompt")
	branchFileCmd.Flags().BoolVar(&flagDecode, "decode", false, "base64-decode the content before printing")
	branchMergeableCmd.Flags().StringVar(&flagMergeSource, "source", "", "commit or branch to merge from")
	branchMergeableCmd.Flags().StringVar(&flagStrategy, "strategy", "", "merge strategy (e.g. recursive, ours)")
	branchMergeableCmd.MarkFlagRequired("source")

	branchCmd.AddCommand(branchListCmd, branchCreateCmd, branchDeleteCmd,
		branchFileCmd, branchReflogCmd, branchMergeableCmd)
	rootCmd.AddCommand(branchCmd)
}
