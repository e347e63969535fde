package ui

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"gerritkit/pkg/models"
)

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// RenderBranches prints branch records as a table
func RenderBranches(w io.Writer, branches []models.BranchInfo) {
	table := newTable(w, []string{"Ref", "Revision", "Can Delete"})
	for _, b := range branches {
		canDelete := ""
		if b.CanDelete {
			canDelete = "yes"
		}
		table.Append([]string{b.Ref, shortRevision(b.Revision), canDelete})
	}
	table.Render()
}

// RenderFiles prints the change files of a commit as a table
func RenderFiles(w io.Writer, files map[string]models.FileInfo, order []string) {
	table := newTable(w, []string{"Status", "Path", "+", "-"})
	for _, path := range order {
		info := files[path]
		status := info.Status
		if status == "" {
			// Gerrit omits the status for plain modifications
			status = "M"
		}
		table.Append([]string{
			status,
			path,
			fmt.Sprintf("%d", info.LinesInserted),
			fmt.Sprintf("%d", info.LinesDeleted),
		})
	}
	table.Render()
}

// RenderReflog prints reflog entries as a table
func RenderReflog(w io.Writer, entries []models.ReflogEntry) {
	table := newTable(w, []string{"Old", "New", "Who", "Comment"})
	for _, e := range entries {
		table.Append([]string{
			shortRevision(e.OldID),
			shortRevision(e.NewID),
			e.Who.Name,
			e.Comment,
		})
	}
	table.Render()
}

func shortRevision(rev string) string {
	if len(rev) > 10 {
		return rev[:10]
	}
	return rev
}
