package cmd

import (
	"fmt"
	"io"
	"strings"

	"image-labeler/core/server"

	"github.com/charmbracelet/lipgloss"
)

// features lists what the browser-side labeling app offers.
var features = []string{
	"Upload and label images",
	"Sub-pixel precision keypoints",
	"Zoom and pan functionality",
	"Export labels as JSON",
}

func printBanner(w io.Writer, cfg server.Config) {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	label := r.NewStyle().Faint(true)
	box := r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	var b strings.Builder
	b.WriteString(title.Render("🎯 Image Labeling Tool Server") + "\n\n")
	b.WriteString(label.Render("Server running at:  ") + cfg.URL() + "\n")
	b.WriteString(label.Render("Serving files from: ") + cfg.Root + "\n\n")
	b.WriteString("Features available:\n")
	for _, f := range features {
		b.WriteString("  • " + f + "\n")
	}
	b.WriteString("\nPress Ctrl+C to stop the server")

	fmt.Fprintln(w, box.Render(b.String()))
}

func printShutdown(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "🛑 Server stopped by user")
	fmt.Fprintln(w, "Thank you for using the Image Labeling Tool!")
}
