package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

const listLimit = 10

var (
	headingText = color.New(color.FgCyan, color.Bold).SprintFunc()
	okText      = color.New(color.FgGreen).SprintFunc()
	warnText    = color.New(color.FgYellow).SprintFunc()
	errorText   = color.New(color.FgRed).SprintFunc()
	dimText     = color.New(color.FgHiBlack).SprintFunc()
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// newTable returns a writer for key/value or list output.
func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	return tw
}

func renderAnime(w io.Writer, res *models.AggregateResult[models.AnimeRecord]) {
	a := res.Data
	fmt.Fprintln(w, headingText(firstOf(a.Titles.English, a.Titles.Romaji, a.Titles.Native)))

	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	addRow(tw, "Romaji", str(a.Titles.Romaji))
	addRow(tw, "English", str(a.Titles.English))
	addRow(tw, "Native", str(a.Titles.Native))
	addRow(tw, "Type", str(a.Format))
	addRow(tw, "Status", str(a.Status))
	addRow(tw, "Episodes", intStr(a.Episodes))
	addRow(tw, "Score", scoreStr(a.Score))
	addRow(tw, "Aired", dateRange(a.Dates))
	addRow(tw, "Genres", strings.Join(a.Genres, ", "))
	addRow(tw, "Studios", strings.Join(a.Studios, ", "))
	addRow(tw, "Tags", strings.Join(limitSlice(a.Tags), ", "))
	if a.NextEpisode != nil {
		addRow(tw, "Next episode", fmt.Sprintf("#%d at %s", a.NextEpisode.Episode, a.NextEpisode.AiringAt.Local().Format("2006-01-02 15:04")))
	}
	addRow(tw, "Poster", str(a.Images.Poster))
	addRow(tw, "IDs", idList(a.IDs))
	tw.Render()

	if a.Synopsis != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, *a.Synopsis)
	}
	if len(a.Reviews) > 0 {
		fmt.Fprintln(w)
		rt := newTable(w)
		rt.AppendHeader(table.Row{"Review by", "Score", "Summary"})
		for _, r := range a.Reviews {
			rt.AppendRow(table.Row{r.Author, scoreStr(r.Score), truncate(r.Summary, 60)})
		}
		rt.Render()
	}
	renderSources(w, res.Sources, res.Errors)
}

func renderCharacter(w io.Writer, res *models.AggregateResult[models.CharacterRecord]) {
	c := res.Data
	fmt.Fprintln(w, headingText(firstOf(c.Name.Full, c.Name.Native)))

	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	addRow(tw, "Name", str(c.Name.Full))
	addRow(tw, "Native", str(c.Name.Native))
	addRow(tw, "Also known as", strings.Join(limitSlice(c.Alternatives), ", "))
	addRow(tw, "Gender", str(c.Gender))
	addRow(tw, "Birthday", c.DateOfBirth.String())
	addRow(tw, "Favourites", intStr(c.Favourites))
	addRow(tw, "Image", str(c.Image))
	addRow(tw, "IDs", idList(c.IDs))
	tw.Render()

	if len(c.Appearances) > 0 {
		at := newTable(w)
		at.AppendHeader(table.Row{"Appears in", "Role", "ID"})
		for _, a := range limitSlice(c.Appearances) {
			at.AppendRow(table.Row{a.Media.Name, a.Role, a.Media.ID.String()})
		}
		at.Render()
	}
	if c.Description != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, *c.Description)
	}
	renderSources(w, res.Sources, res.Errors)
}

func renderPerson(w io.Writer, res *models.AggregateResult[models.PersonRecord]) {
	p := res.Data
	fmt.Fprintln(w, headingText(firstOf(p.Name.Full, p.Name.Native)))

	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	addRow(tw, "Name", str(p.Name.Full))
	addRow(tw, "Native", str(p.Name.Native))
	addRow(tw, "Birthday", p.Birthday.String())
	addRow(tw, "Favourites", intStr(p.Favourites))
	addRow(tw, "Image", str(p.Image))
	addRow(tw, "IDs", idList(p.IDs))
	tw.Render()

	if len(p.VoiceRoles) > 0 {
		vt := newTable(w)
		vt.AppendHeader(table.Row{"Character", "Anime", "Role", "Language"})
		for _, v := range limitSlice(p.VoiceRoles) {
			vt.AppendRow(table.Row{v.Character.Name, v.Media.Name, v.Role, v.Language})
		}
		vt.Render()
	}
	if len(p.Credits) > 0 {
		ct := newTable(w)
		ct.AppendHeader(table.Row{"Staff credit", "Position"})
		for _, c := range limitSlice(p.Credits) {
			ct.AppendRow(table.Row{c.Media.Name, c.Position})
		}
		ct.Render()
	}
	renderSources(w, res.Sources, res.Errors)
}

// renderSources prints the per-catalog manifest and any secondary failures.
func renderSources(w io.Writer, sources []models.SourceReport, errs []models.SourceError) {
	fmt.Fprintln(w)
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Source", "ID", "Confidence", "Via", "State"})
	for _, s := range sources {
		state := string(s.State)
		if s.State == models.StateDone {
			state = okText(state)
		} else {
			state = warnText(state)
		}
		via := s.Strategy
		if via == "" {
			via = dimText("-")
		}
		tw.AppendRow(table.Row{string(s.Source), s.ID, string(s.Confidence), via, state})
	}
	tw.Render()

	for _, e := range errs {
		fmt.Fprintln(w, warnText(fmt.Sprintf("! %s %s: %s", e.Source, e.Kind, e.Message)))
	}
}

func renderSearch(w io.Writer, hits []catalog.Payload) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Other names", "Links"})
	for _, h := range hits {
		var others []string
		if len(h.Names) > 1 {
			others = h.Names[1:]
		}
		tw.AppendRow(table.Row{h.ID, h.Key(), truncate(strings.Join(others, ", "), 40), linkList(h.Links)})
	}
	tw.Render()
}

func addRow(tw table.Writer, label, value string) {
	if value == "" {
		return
	}
	tw.AppendRow(table.Row{label, value})
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstOf(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return "(untitled)"
}

func intStr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func scoreStr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64) + " / 10"
}

func dateRange(d models.DateRange) string {
	start, end := d.Start.String(), d.End.String()
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " to ?"
	default:
		return start + " to " + end
	}
}

func idList(ids []models.SourceID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, "  ")
}

func linkList(links map[models.Source]string) string {
	var parts []string
	for _, src := range models.AllSources {
		if id, ok := links[src]; ok {
			parts = append(parts, string(src)+":"+id)
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

func limitSlice[T any](list []T) []T {
	if len(list) > listLimit {
		return list[:listLimit]
	}
	return list
}
