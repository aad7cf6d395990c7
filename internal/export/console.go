package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"electwatch/internal"
	"electwatch/internal/pipeline"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderConsole prints the ranked units, the units missing details and the
// summary figures.
func RenderConsole(w io.Writer, view pipeline.View, summary internal.Summary, ratio float64) {
	t := newTable(w)
	t.AppendHeader(table.Row{"No.", "담당 선관위", "선거 단위", "투표율", "투표자 수", "증가", "총 유권자", "투표 성사 잔여 인원", "상태"})
	for _, r := range view.Complete {
		name := r.UnitName
		if r.Target {
			name = "★ " + name
		}
		t.AppendRow(table.Row{
			r.SerialNumber, r.Commission, name,
			FormatRate(r.TurnoutRate), FormatCount(r.VotedCount), FormatGrowth(r.Growth),
			FormatCount(r.TotalEligible), FormatCount(r.RemainingToClose),
			statusLabel(pipeline.RowClassOf(r, ratio)),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	t.AppendFooter(table.Row{"", "", "진행 중", len(view.Complete)})
	t.Render()

	if len(view.Incomplete) > 0 {
		missing := newTable(w)
		missing.SetTitle("일부 정보 미표기 단위")
		missing.AppendHeader(table.Row{"No.", "담당 선관위", "선거 단위", "투표율", "투표자 수", "총 유권자", "투표 성사 잔여 인원"})
		for _, r := range view.Incomplete {
			missing.AppendRow(table.Row{
				r.SerialNumber, r.Commission, r.UnitName,
				FormatRate(r.TurnoutRate), FormatCount(r.VotedCount),
				FormatCount(r.TotalEligible), FormatCount(r.RemainingToClose),
			})
		}
		missing.Render()
	}

	RenderSummary(w, summary)
}

func RenderSummary(w io.Writer, s internal.Summary) {
	t := newTable(w)
	t.AppendHeader(table.Row{"총학 증가", "단과대 증가", "학과 증가", "총학 잔여", "중점 단위 잔여 합", "값"})
	t.AppendRow(table.Row{
		FormatDelta(s.TotalGrowth), FormatDelta(s.CollegeGrowth), FormatDelta(s.DepartmentGrowth),
		FormatInt(s.RemainingTotal), FormatInt(s.RemainingTargetSum), FormatInt(s.Value),
	})
	t.Render()
}

func statusLabel(c internal.RowClass) string {
	switch c {
	case internal.RowClosed:
		return "개표 가능"
	case internal.RowNearClosing:
		return "임박"
	default:
		return ""
	}
}
