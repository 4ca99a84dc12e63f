package report_test

import (
	"reflect"
	"testing"

	"fanquiz-service/internal/domain"
	"fanquiz-service/internal/report"
)

func mcq(text string, correct int) domain.Question {
	return domain.Question{
		QuestionText:  text,
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: correct,
	}
}

func optionBlocks(page report.Page) []report.Block {
	var out []report.Block
	for _, b := range page.Blocks {
		switch b.Style {
		case report.StyleCorrect, report.StyleIncorrect, report.StyleDefault:
			out = append(out, b)
		}
	}
	return out
}

func TestSinglePageGeometry(t *testing.T) {
	quiz := domain.Quiz{Title: "Geo", Questions: []domain.Question{mcq("Q1", 1)}}
	rep := report.Paginate(report.DefaultLayout(), quiz, []int{1})

	if len(rep.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(rep.Pages))
	}
	blocks := rep.Pages[0].Blocks
	if len(blocks) != 7 {
		t.Fatalf("expected 7 blocks (header 2, question 1, options 4), got %d", len(blocks))
	}

	if blocks[0].Style != report.StyleTitle || blocks[0].Y != 20 || blocks[0].X != 105 {
		t.Fatalf("unexpected title block: %+v", blocks[0])
	}
	if blocks[1].Style != report.StyleSubtitle || blocks[1].Text != "Quiz Results" || blocks[1].Y != 30 {
		t.Fatalf("unexpected subtitle block: %+v", blocks[1])
	}
	if blocks[2].Style != report.StyleQuestion || blocks[2].Text != "1. Q1" || blocks[2].Y != 45 {
		t.Fatalf("unexpected question block: %+v", blocks[2])
	}

	wantY := []float64{55, 67, 79, 91}
	for i, b := range blocks[3:] {
		if b.Y != wantY[i] {
			t.Fatalf("option %d at y=%v, want %v", i, b.Y, wantY[i])
		}
		if b.W != 170 || b.H != 10 {
			t.Fatalf("option %d box %vx%v, want 170x10", i, b.W, b.H)
		}
	}
}

func TestPaginationIsDeterministic(t *testing.T) {
	quiz := domain.Quiz{
		Title: "Twice",
		Questions: []domain.Question{
			mcq("Q1", 0), mcq("Q2", 1), mcq("Q3", 2), mcq("Q4", 3), mcq("Q5", 0),
		},
	}
	answers := []int{0, 2, 2, 1, 3}

	first := report.Paginate(report.DefaultLayout(), quiz, answers)
	second := report.Paginate(report.DefaultLayout(), quiz, answers)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs produced different output")
	}
}

func TestPageBreakBeforeOversizedQuestion(t *testing.T) {
	layout := report.DefaultLayout()
	quiz := domain.Quiz{
		Title: "Break",
		Questions: []domain.Question{
			mcq("Q1", 0), mcq("Q2", 0), mcq("Q3", 0), mcq("Q4", 0), mcq("Q5", 0),
		},
	}
	rep := report.Paginate(layout, quiz, []int{0, 0, 0, 0, 0})

	// With the A4 layout three questions fit under the header; the fourth
	// moves whole to page two.
	if len(rep.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(rep.Pages))
	}
	second := rep.Pages[1].Blocks
	if second[0].Style != report.StyleQuestion || second[0].Text != "4. Q4" {
		t.Fatalf("expected question 4 to open page 2, got %+v", second[0])
	}
	if second[0].Y != layout.Margin {
		t.Fatalf("expected question 4 at the top margin, got y=%v", second[0].Y)
	}
	// No split: question 4's options all live on page 2.
	if len(optionBlocks(rep.Pages[1])) != 8 {
		t.Fatalf("expected options of questions 4 and 5 on page 2, got %d option blocks", len(optionBlocks(rep.Pages[1])))
	}
}

func TestExactFitStaysOnPage(t *testing.T) {
	layout := report.DefaultLayout()
	// After the header the cursor sits at 45; the estimate of a 4-option
	// question is 75. A page height of 140 leaves exactly 75 before the
	// bottom margin, so the question fits; one unit less forces the break.
	layout.PageHeight = 140

	quiz := domain.Quiz{Title: "Fit", Questions: []domain.Question{mcq("Q1", 0)}}

	rep := report.Paginate(layout, quiz, []int{0})
	if len(rep.Pages) != 1 {
		t.Fatalf("exact fit spilled to %d pages", len(rep.Pages))
	}

	layout.PageHeight = 139
	rep = report.Paginate(layout, quiz, []int{0})
	if len(rep.Pages) != 2 {
		t.Fatalf("expected break before placement, got %d pages", len(rep.Pages))
	}
	if got := len(optionBlocks(rep.Pages[0])); got != 0 {
		t.Fatalf("question block split across pages: %d option blocks on page 1", got)
	}
}

func TestHeaderOnFirstPageOnly(t *testing.T) {
	quiz := domain.Quiz{Title: "Long", Questions: []domain.Question{
		mcq("Q1", 0), mcq("Q2", 0), mcq("Q3", 0), mcq("Q4", 0),
	}}
	rep := report.Paginate(report.DefaultLayout(), quiz, []int{0, 0, 0, 0})
	if len(rep.Pages) < 2 {
		t.Fatalf("expected multiple pages, got %d", len(rep.Pages))
	}
	for p, page := range rep.Pages[1:] {
		for _, b := range page.Blocks {
			if b.Style == report.StyleTitle || b.Style == report.StyleSubtitle {
				t.Fatalf("header block repeated on page %d: %+v", p+2, b)
			}
		}
	}
}

func TestCorrectStyleWinsOverIncorrect(t *testing.T) {
	quiz := domain.Quiz{Title: "Styles", Questions: []domain.Question{mcq("Q1", 1)}}

	// Taker answered correctly: one correct row, no incorrect row.
	rep := report.Paginate(report.DefaultLayout(), quiz, []int{1})
	var correct, incorrect int
	for _, b := range optionBlocks(rep.Pages[0]) {
		switch b.Style {
		case report.StyleCorrect:
			correct++
		case report.StyleIncorrect:
			incorrect++
		}
	}
	if correct != 1 || incorrect != 0 {
		t.Fatalf("expected 1 correct / 0 incorrect, got %d / %d", correct, incorrect)
	}
}

func TestWrongAnswerStyling(t *testing.T) {
	quiz := domain.Quiz{Title: "Styles", Questions: []domain.Question{mcq("Q1", 1)}}
	rep := report.Paginate(report.DefaultLayout(), quiz, []int{3})

	options := optionBlocks(rep.Pages[0])
	if options[1].Style != report.StyleCorrect {
		t.Fatalf("correct option not styled: %+v", options[1])
	}
	if options[3].Style != report.StyleIncorrect {
		t.Fatalf("taker's wrong answer not styled: %+v", options[3])
	}
	if options[0].Style != report.StyleDefault || options[2].Style != report.StyleDefault {
		t.Fatalf("neutral options styled: %+v %+v", options[0], options[2])
	}
}

func TestFilenameCollapsesWhitespace(t *testing.T) {
	cases := map[string]string{
		"My Quiz":            "My-Quiz-results",
		"My   spaced\tquiz":  "My-spaced-quiz-results",
		" leading trailing ": "leading-trailing-results",
		"":                   "quiz-results",
	}
	for title, want := range cases {
		if got := report.Filename(title); got != want {
			t.Fatalf("Filename(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestFillColors(t *testing.T) {
	if report.Fill(report.StyleCorrect) != (report.RGB{230, 255, 237}) {
		t.Fatalf("unexpected correct fill")
	}
	if report.Fill(report.StyleIncorrect) != (report.RGB{253, 234, 234}) {
		t.Fatalf("unexpected incorrect fill")
	}
	if report.Fill(report.StyleDefault) != (report.RGB{255, 255, 255}) {
		t.Fatalf("unexpected default fill")
	}
}
