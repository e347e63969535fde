package cmd

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"gerritkit/internal/projects"
	"gerritkit/internal/ui"
	"gerritkit/pkg/models"
)

var (
	flagDestination string
	flagMessage     string
	flagAllowConf   bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Inspect project commits",
}

var commitShowCmd = &cobra.Command{
	Use:   "show [sha]",
	Short: "Show a commit",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommitShow,
}

var commitFilesCmd = &cobra.Command{
	Use:   "files [sha]",
	Short: "List the files changed by a commit",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommitFiles,
}

var commitFileCmd = &cobra.Command{
	Use:   "file [sha] [path]",
	Short: "Print the content of a file at a commit",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommitFile,
}

var commitIncludedInCmd = &cobra.Command{
	Use:   "included-in [sha]",
	Short: "Show the branches and tags that contain a commit",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommitIncludedIn,
}

var commitCherryPickCmd = &cobra.Command{
	Use:   "cherry-pick [sha]",
	Short: "Cherry-pick a commit onto another branch as a new change",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommitCherryPick,
}

func getCommit(cmd *cobra.Command, sha string) (*projects.Commit, error) {
	gerrit, err := newGerritClient()
	if err != nil {
		return nil, err
	}
	project, err := resolveProject()
	if err != nil {
		return nil, err
	}
	return projects.GetCommit(cmd.Context(), gerrit, project, sha)
}

func runCommitShow(cmd *cobra.Command, args []string) error {
	commit, err := getCommit(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "commit  %s\n", commit.Commit)
	fmt.Fprintf(out, "author  %s <%s>\n", commit.Author.Name, commit.Author.Email)
	for _, parent := range commit.Parents {
		fmt.Fprintf(out, "parent  %s\n", parent.Commit)
	}
	fmt.Fprintf(out, "\n%s\n", strings.TrimSpace(commit.Message))
	return nil
}

func runCommitFiles(cmd *cobra.Command, args []string) error {
	commit, err := getCommit(cmd, args[0])
	if err != nil {
		return err
	}

	files, err := commit.ListFiles(cmd.Context())
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	ui.RenderFiles(cmd.OutOrStdout(), files, paths)
	return nil
}

func runCommitFile(cmd *cobra.Command, args []string) error {
	commit, err := getCommit(cmd, args[0])
	if err != nil {
		return err
	}

	content, err := commit.FileContent(cmd.Context(), args[1])
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

func runCommitIncludedIn(cmd *cobra.Command, args []string) error {
	commit, err := getCommit(cmd, args[0])
	if err != nil {
		return err
	}

	info, err := commit.IncludedIn(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Branches: %s\n", strings.Join(info.Branches, ", "))
	fmt.Fprintf(out, "Tags:     %s\n", strings.Join(info.Tags, ", "))
	return nil
}

func runCommitCherryPick(cmd *cobra.Command, args []string) error {
	commit, err := getCommit(cmd, args[0])
	if err != nil {
		return err
	}

	message := flagMessage
	if message == "" {
		message = commit.Message
	}

	change, err := commit.CherryPick(cmd.Context(), &models.CherryPickInput{
		Message:        message,
		Destination:    flagDestination,
		AllowConflicts: flagAllowConf,
	})
	if err != nil {
		return err
	}

	ui.ShowSuccess(fmt.Sprintf("change %s created on %s (%s)", change.ChangeID, change.Branch, change.Status))
	return nil
}

func init() {
	commitFileCmd.Flags().BoolVar(&flagDecode, "decode", false, "base64-decode the content before printing")
	commitCherryPickCmd.Flags().StringVar(&flagDestination, "destination", "", "destination branch")
	commitCherryPickCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "commit message for the new change (defaults to the original)")
	commitCherryPickCmd.Flags().BoolVar(&flagAllowConf, "allow-conflicts", false, "create the change even with conflict markers")
	commitCherryPickCmd.MarkFlagRequired("destination")

	commitCmd.AddCommand(commitShowCmd, commitFilesCmd, commitFileCmd,
		commitIncludedInCmd, commitCherryPickCmd)
	rootCmd.AddCommand(commitCmd)
}
