package view

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"text/tabwriter"
)

// Template names inside the assets filesystem.
const (
	dashboardTemplate = "assets/index.html"
	moleculeTemplate  = "assets/molecule.html"
)

// PanelsTemplate is the named block holding both panels. The dashboard page
// re-fetches it when a new state arrives.
const PanelsTemplate = "panels"

// Renderer renders dashboards and molecule pages from HTML templates.
type Renderer struct {
	dashboard *template.Template
	molecule  *template.Template
}

// NewRenderer parses the page templates from assets.
func NewRenderer(assets fs.FS) (*Renderer, error) {
	funcs := template.FuncMap{
		"plural": func(n int, word string) string {
			if n == 1 {
				return fmt.Sprintf("%d %s", n, word)
			}
			return fmt.Sprintf("%d %ss", n, word)
		},
		"more": func(total, shown int) int { return total - shown },
	}

	dash, err := template.New("index.html").Funcs(funcs).ParseFS(assets, dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	if dash.Lookup(PanelsTemplate) == nil {
		return nil, fmt.Errorf("dashboard template has no %q block", PanelsTemplate)
	}

	mol, err := template.New("molecule.html").ParseFS(assets, moleculeTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse molecule template: %w", err)
	}

	return &Renderer{dashboard: dash, molecule: mol}, nil
}

// RenderHTML writes the full dashboard page.
func (r *Renderer) RenderHTML(w io.Writer, d Dashboard) error {
	return r.dashboard.Execute(w, d)
}

// RenderPanels writes only the panels block.
func (r *Renderer) RenderPanels(w io.Writer, d Dashboard) error {
	return r.dashboard.ExecuteTemplate(w, PanelsTemplate, d)
}

// RenderMolecule writes the 3D molecule viewer page. The caller validates
// the SMILES string first.
func (r *Renderer) RenderMolecule(w io.Writer, p MoleculePage) error {
	return r.molecule.Execute(w, p)
}

// RenderText writes the dashboard as aligned plain-text tables.
func RenderText(w io.Writer, d Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\n\n", d.Title)

	fmt.Fprintln(tw, "MOLECULAR DESIGN")
	switch {
	case d.Loading:
		fmt.Fprintln(tw, "  loading...")
	case d.Candidates.Placeholder != "":
		fmt.Fprintf(tw, "  %s\n", d.Candidates.Placeholder)
	default:
		fmt.Fprintln(tw, "  ID\tAREA\tTYPE\tSTAGE\tEFFICACY\tSAFETY")
		for _, c := range d.Candidates.Rows {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.TherapeuticArea, dash(c.MoleculeType), dash(c.Stage), c.Efficacy, c.Safety)
		}
		if n := d.Candidates.Total - len(d.Candidates.Rows); n > 0 {
			fmt.Fprintf(tw, "  (+%d more)\n", n)
		}
	}
	if d.Candidates.Error != "" {
		fmt.Fprintf(tw, "  ! %s\n", d.Candidates.Error)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CLINICAL TRIALS")
	switch {
	case d.Loading:
		fmt.Fprintln(tw, "  loading...")
	case d.Trials.Placeholder != "":
		fmt.Fprintf(tw, "  %s\n", d.Trials.Placeholder)
	default:
		fmt.Fprintln(tw, "  ID\tPHASE\tSTATUS\tENROLLMENT\tSIGNALS")
		for _, t := range d.Trials.Rows {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%d\n",
				t.ID, dash(t.Phase), dash(t.Status), t.Enrollment, t.SafetySignals)
		}
		if n := d.Trials.Total - len(d.Trials.Rows); n > 0 {
			fmt.Fprintf(tw, "  (+%d more)\n", n)
		}
	}
	if d.Trials.Error != "" {
		fmt.Fprintf(tw, "  ! %s\n", d.Trials.Error)
	}

	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
