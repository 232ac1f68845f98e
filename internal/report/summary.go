// Package report renders aggregated benchmark statistics into the
// human-facing artifacts: a ranked summary table and per-page WER
// matrices in markdown and colorized HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"go-htr-bench/pkg/models"
)

const timestampLayout = "02/01/2006 15:04:05"

// summaryExplanation is printed under the ranking table so readers can
// interpret the metric without hunting through documentation.
const summaryExplanation = "Le taux d'erreur de mots (WER, Word Error Rate) est calculé en comparant la transcription générée " +
	"à la transcription de référence. Pour ce faire, nous déterminons le nombre minimal d'opérations " +
	"(substitutions, insertions, suppressions) nécessaires pour transformer la transcription générée en transcription " +
	"de référence, puis nous divisons ce nombre par le nombre de mots de la transcription de référence. Ainsi, un WER de 0 indique " +
	"une correspondance parfaite, tandis qu'un WER de 1 signifie que l'ensemble des mots diffère. Le CER (Character Error Rate) " +
	"applique le même calcul au niveau des caractères.\n\n" +
	"Les colonnes 'Éditeur' et 'Type de modèle' indiquent respectivement l'entité ayant développé le modèle et si le modèle est libre " +
	"(open source) ou propriétaire."

// Summary renders the ranked per-model table as markdown. Stats are
// expected pre-sorted by median WER; the renderer does not reorder.
func Summary(stats []models.ModelStats, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Résultats de transcription - Généré le %s\n\n", now.Format(timestampLayout))
	b.WriteString("| Modèle | Éditeur | Type de modèle | Nombre d'images | Coût total ($) | Coût moyen ($) | WER min | WER médian | WER max | CER médian |\n")
	b.WriteString("| --- | --- | --- | --- | ---: | ---: | ---: | ---: | ---: | ---: |\n")

	for _, s := range stats {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %.6f | %.6f | %s | %s | %s | %s |\n",
			s.Model, s.Editeur, s.ModeleType, s.NImages,
			s.TotalCost, s.MeanCost,
			formatRate(s.WERMin), formatRate(s.WERMed), formatRate(s.WERMax),
			formatRate(s.CERMed))
	}

	b.WriteString("\n\n")
	b.WriteString(summaryExplanation)
	b.WriteString("\n")
	return b.String()
}

// formatRate renders an error rate, mapping the sentinel to "Excluded".
func formatRate(rate float64) string {
	if rate == models.ExcludedWER {
		return "Excluded"
	}
	return fmt.Sprintf("%.3f", rate)
}
