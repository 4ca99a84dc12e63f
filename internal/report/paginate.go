// Package report lays a completed quiz attempt out as fixed-size pages of
// positioned, styled blocks, ready for any renderer to rasterize. The layout
// is pure: identical (document, answers) input yields identical geometry and
// styling on every run.
package report

import (
	"fmt"
	"strings"

	"fanquiz-service/internal/domain"
)

// Style selects the visual treatment of a block.
type Style int

const (
	StyleDefault Style = iota
	StyleTitle
	StyleSubtitle
	StyleQuestion
	StyleCorrect   // the correct option
	StyleIncorrect // the taker's answer, when it was wrong
)

func (s Style) String() string {
	switch s {
	case StyleTitle:
		return "title"
	case StyleSubtitle:
		return "subtitle"
	case StyleQuestion:
		return "question"
	case StyleCorrect:
		return "correct"
	case StyleIncorrect:
		return "incorrect"
	}
	return "default"
}

// RGB is a fill color for option rows.
type RGB struct{ R, G, B uint8 }

// Fill colors for option rows, per style.
var (
	FillCorrect   = RGB{230, 255, 237}
	FillIncorrect = RGB{253, 234, 234}
	FillDefault   = RGB{255, 255, 255}
	BorderColor   = RGB{221, 221, 221}
)

// Fill maps an option style to its background color.
func Fill(s Style) RGB {
	switch s {
	case StyleCorrect:
		return FillCorrect
	case StyleIncorrect:
		return FillIncorrect
	}
	return FillDefault
}

// Block is one positioned content item. X/Y anchor the text baseline; for
// option rows W/H describe the background box drawn behind the text.
type Block struct {
	Style Style   `json:"style"`
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w,omitempty"`
	H     float64 `json:"h,omitempty"`
}

// Page is a bounded rectangle of blocks.
type Page struct {
	Blocks []Block `json:"blocks"`
}

// Report is the paginated output plus the derived artifact name.
type Report struct {
	Filename string `json:"filename"`
	Pages    []Page `json:"pages"`
}

// Layout fixes the page geometry and the per-block advances. All values are
// in the same unit (millimeters for the default A4 layout).
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	TitleAdvance    float64 // header title row
	SubtitleAdvance float64 // "Quiz Results" row, ends the header
	QuestionAdvance float64 // question text row
	OptionHeight    float64 // option background box height
	OptionAdvance   float64 // cursor advance per option row
	QuestionGap     float64 // extra space after a question's last option

	// Closed-form block height estimate used by the page-break rule:
	// EstimateBase + options*EstimatePerOption. Intentionally approximate,
	// and reproduced identically on every run.
	EstimateBase      float64
	EstimatePerOption float64
}

// DefaultLayout is A4 portrait in millimeters with a 20mm margin.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:         210,
		PageHeight:        297,
		Margin:            20,
		TitleAdvance:      10,
		SubtitleAdvance:   15,
		QuestionAdvance:   10,
		OptionHeight:      10,
		OptionAdvance:     12,
		QuestionGap:       5,
		EstimateBase:      15,
		EstimatePerOption: 15,
	}
}

func (l Layout) estimate(options int) float64 {
	return l.EstimateBase + float64(options)*l.EstimatePerOption
}

// Paginate lays the scored attempt out onto pages. answers is parallel to
// quiz.Questions by position; a missing entry renders the question with no
// answer styling beyond the correct option.
func Paginate(layout Layout, quiz domain.Quiz, answers []int) Report {
	contentWidth := layout.PageWidth - 2*layout.Margin
	limit := layout.PageHeight - layout.Margin

	pages := []Page{{}}
	page := &pages[0]
	y := layout.Margin

	// Header on the first page only.
	page.Blocks = append(page.Blocks, Block{
		Style: StyleTitle,
		Text:  quiz.Title,
		X:     layout.PageWidth / 2,
		Y:     y,
	})
	y += layout.TitleAdvance
	page.Blocks = append(page.Blocks, Block{
		Style: StyleSubtitle,
		Text:  "Quiz Results",
		X:     layout.PageWidth / 2,
		Y:     y,
	})
	y += layout.SubtitleAdvance

	for i, question := range quiz.Questions {
		// Break before placing a question that will not fit; a question's
		// blocks are never split across pages.
		if y+layout.estimate(len(question.Options)) > limit {
			pages = append(pages, Page{})
			page = &pages[len(pages)-1]
			y = layout.Margin
		}

		page.Blocks = append(page.Blocks, Block{
			Style: StyleQuestion,
			Text:  fmt.Sprintf("%d. %s", i+1, question.QuestionText),
			X:     layout.Margin,
			Y:     y,
		})
		y += layout.QuestionAdvance

		answered := i < len(answers)
		for o, option := range question.Options {
			style := StyleDefault
			switch {
			case o == question.CorrectAnswer:
				// Correct wins even when it is also the taker's answer.
				style = StyleCorrect
			case answered && o == answers[i]:
				style = StyleIncorrect
			}
			page.Blocks = append(page.Blocks, Block{
				Style: style,
				Text:  option,
				X:     layout.Margin,
				Y:     y,
				W:     contentWidth,
				H:     layout.OptionHeight,
			})
			y += layout.OptionAdvance
		}
		y += layout.QuestionGap
	}

	return Report{
		Filename: Filename(quiz.Title),
		Pages:    pages,
	}
}

// Filename derives the export artifact name from the quiz title: whitespace
// runs collapse to a single dash, case preserved, "-results" appended.
func Filename(title string) string {
	collapsed := strings.Join(strings.Fields(title), "-")
	if collapsed == "" {
		collapsed = "quiz"
	}
	return collapsed + "-results"
}
