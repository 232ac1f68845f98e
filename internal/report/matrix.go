package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"go-htr-bench/internal/aggregator"
	"go-htr-bench/internal/catalog"
	"go-htr-bench/pkg/models"
)

// defaultPageDescription labels pages without a curated description.
const defaultPageDescription = "Document d'archives historiques"

// MatrixMarkdown renders the page-by-model WER matrix as a markdown
// table with a closing mean row. Missing pairs render as N/A, excluded
// pages as Excluded; neither contributes to the mean.
func MatrixMarkdown(m *aggregator.Matrix, descriptions map[string]string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Performance des modèles HTR par page (WER) - Généré le %s\n\n", now.Format(timestampLayout))
	b.WriteString("Plus le WER est bas, meilleure est la performance.\n\n")

	b.WriteString("| Image | Description |")
	for _, model := range m.Models {
		fmt.Fprintf(&b, " %s |", catalog.DisplayName(model))
	}
	b.WriteString("\n|:-----|:-----------|")
	for range m.Models {
		b.WriteString("-----:|")
	}
	b.WriteString("\n")

	for _, image := range m.Images {
		description := descriptions[image]
		if description == "" {
			description = defaultPageDescription
		}
		fmt.Fprintf(&b, "| %s | %s |", image, description)
		for _, model := range m.Models {
			b.WriteString(" " + cellText(m, image, model) + " |")
		}
		b.WriteString("\n")
	}

	b.WriteString("| Moyenne | |")
	for _, model := range m.Models {
		mean, ok := modelMean(m, model)
		if ok {
			fmt.Fprintf(&b, " %.3f |", mean)
		} else {
			b.WriteString(" N/A |")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// cellText formats one matrix cell for markdown.
func cellText(m *aggregator.Matrix, image, model string) string {
	sr, ok := m.Cells[image][model]
	switch {
	case !ok:
		return "N/A"
	case sr.Excluded:
		return "Excluded"
	default:
		return fmt.Sprintf("%.3f", sr.WER)
	}
}

// modelMean averages a model's WERs over scored pages only.
func modelMean(m *aggregator.Matrix, model string) (float64, bool) {
	var sum float64
	var n int
	for _, image := range m.Images {
		sr, ok := m.Cells[image][model]
		if !ok || sr.Excluded {
			continue
		}
		sum += sr.WER
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// cellStyle returns the inline background/foreground style for a cell.
func cellStyle(sr models.ScoredRecord, present bool) string {
	switch {
	case !present:
		return "background-color: #f8f8f8; color: #888888"
	case sr.Excluded:
		return "background-color: #e8e8e8; color: #888888"
	case sr.WER < 0.5:
		return "background-color: #c6efce; color: #006100"
	case sr.WER < 1.0:
		return "background-color: #ffeb9c; color: #9c5700"
	default:
		return "background-color: #ffc7ce; color: #9c0006"
	}
}

// MatrixHTML renders the matrix as a standalone colorized HTML page.
func MatrixHTML(m *aggregator.Matrix, descriptions map[string]string, now time.Time) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Performance des modèles HTR par page</title>
<style>
body { font-family: sans-serif; padding: 20px; }
.table-container { overflow-x: auto; }
table { border-collapse: collapse; width: 100%; }
th, td { padding: 8px; text-align: center; border: 1px solid #dee2e6; }
th { position: sticky; top: 0; background-color: #f8f9fa; }
td:nth-child(2) { text-align: left; }
</style>
</head>
<body>
<h1>Performance des modèles HTR par page (WER)</h1>
`)
	fmt.Fprintf(&b, "<p>Généré le %s</p>\n", now.Format(timestampLayout))
	b.WriteString("<p>Plus le WER est bas, meilleure est la performance.</p>\n")
	b.WriteString("<div class=\"table-container\">\n<table>\n<thead><tr><th>Image</th><th>Description</th>")
	for _, model := range m.Models {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(catalog.DisplayName(model)))
	}
	b.WriteString("</tr></thead>\n<tbody>\n")

	for _, image := range m.Images {
		description := descriptions[image]
		if description == "" {
			description = defaultPageDescription
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td>",
			html.EscapeString(image), html.EscapeString(description))
		for _, model := range m.Models {
			sr, ok := m.Cells[image][model]
			fmt.Fprintf(&b, "<td style=\"%s\">%s</td>", cellStyle(sr, ok), cellText(m, image, model))
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("<tr><td>Moyenne</td><td></td>")
	for _, model := range m.Models {
		mean, ok := modelMean(m, model)
		if ok {
			fmt.Fprintf(&b, "<td>%.3f</td>", mean)
		} else {
			b.WriteString("<td>N/A</td>")
		}
	}
	b.WriteString("</tr>\n</tbody>\n</table>\n</div>\n")

	b.WriteString(`<h3>Légende</h3>
<p>
<span style="display:inline-block;width:20px;height:20px;background-color:#c6efce;margin-right:5px;"></span> Bon (WER &lt; 0.5)
<span style="display:inline-block;width:20px;height:20px;background-color:#ffeb9c;margin-left:20px;margin-right:5px;"></span> Moyen (WER &lt; 1.0)
<span style="display:inline-block;width:20px;height:20px;background-color:#ffc7ce;margin-left:20px;margin-right:5px;"></span> Faible (WER &ge; 1.0)
<span style="display:inline-block;width:20px;height:20px;background-color:#e8e8e8;margin-left:20px;margin-right:5px;"></span> Exclu
</p>
</body>
</html>
`)
	return b.String()
}
