package echoportal

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brainbuddy/portal/core/backend"
	"github.com/brainbuddy/portal/core/normalize"
	"github.com/brainbuddy/portal/core/profile"
)

// doubt solver

type doubtData struct {
	Result *backend.DoubtResult
}

func (p *portal) doubtPage(ctx echo.Context) error {
	page := p.newPage(ctx, "Doubt Solver", "doubt")
	page.Data = &doubtData{}
	return p.render(ctx, "doubt", page)
}

func (p *portal) doubt(ctx echo.Context) error {
	page := p.newPage(ctx, "Doubt Solver", "doubt")
	data := &doubtData{}
	page.Data = data

	fh, err := ctx.FormFile("image")
	if err != nil {
		page.Error = "Please choose an image of your question."
		return p.render(ctx, "doubt", page)
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded image")
	}
	defer src.Close()

	result, err := p.client.SolveDoubt(ctx.Request().Context(), authToken(ctx), fh.Filename, src)
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "doubt", page)
	}
	data.Result = &result
	return p.render(ctx, "doubt", page)
}

// essay grader

type essayData struct {
	Form   EssayForm
	Result *backend.EssayResult
}

func (p *portal) essayPage(ctx echo.Context) error {
	page := p.newPage(ctx, "Essay Grader", "essay-grader")
	page.Data = &essayData{}
	return p.render(ctx, "essay", page)
}

func (p *portal) essay(ctx echo.Context) error {
	var form EssayForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to EssayForm")
	}

	page := p.newPage(ctx, "Essay Grader", "essay-grader")
	data := &essayData{Form: form}
	page.Data = data

	if err := form.Validate(p.validate); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "essay", page)
	}

	result, err := p.client.AnalyzeEssay(ctx.Request().Context(), authToken(ctx), form.Essay)
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "essay", page)
	}
	data.Result = &result
	return p.render(ctx, "essay", page)
}

// study plan

type studyPlanData struct {
	Form   PlanForm
	Link   profile.LinkResult
	Result *normalize.Result
}

func (p *portal) studyPlanPage(ctx echo.Context) error {
	link := p.resolver(ctx).Resolve(ctx.Request().Context(), authToken(ctx), false)

	page := p.newPage(ctx, "Study Plan", "study-plan")
	page.Data = &studyPlanData{Link: link}
	return p.render(ctx, "study_plan", page)
}

func (p *portal) studyPlan(ctx echo.Context) error {
	var form PlanForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to PlanForm")
	}

	reqCtx := ctx.Request().Context()
	link := p.resolver(ctx).Resolve(reqCtx, authToken(ctx), false)

	page := p.newPage(ctx, "Study Plan", "study-plan")
	data := &studyPlanData{Form: form, Link: link}
	page.Data = data

	if err := form.Validate(p.validate); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "study_plan", page)
	}

	payload, err := p.client.GeneratePlan(reqCtx, authToken(ctx), form.Subject)
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "study_plan", page)
	}

	result := normalize.Normalize(payload)
	data.Result = &result
	return p.render(ctx, "study_plan", page)
}

// notes summarizer

type summarizerData struct {
	Form    SummarizeForm
	Title   string
	Summary string
}

func (p *portal) summarizerPage(ctx echo.Context) error {
	page := p.newPage(ctx, "Notes Summarizer", "summarizer")
	page.Data = &summarizerData{Form: SummarizeForm{Mode: "text"}}
	return p.render(ctx, "summarizer", page)
}

func (p *portal) summarize(ctx echo.Context) error {
	var form SummarizeForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to SummarizeForm")
	}

	page := p.newPage(ctx, "Notes Summarizer", "summarizer")
	data := &summarizerData{Form: form}
	page.Data = data

	var (
		payload interface{}
		err     error
		reqCtx  = ctx.Request().Context()
		token   = authToken(ctx)
	)
	if form.Mode == "file" {
		fh, ferr := ctx.FormFile("file")
		if ferr != nil {
			page.Error = "Please choose a file to summarize."
			return p.render(ctx, "summarizer", page)
		}
		src, ferr := fh.Open()
		if ferr != nil {
			return errors.Wrap(ferr, "opening uploaded notes")
		}
		defer src.Close()
		payload, err = p.client.SummarizeNotes(reqCtx, token, fh.Filename, src, form.Prompt)
	} else {
		text := strings.TrimSpace(form.Text)
		if text == "" {
			page.Error = "Please paste some notes."
			return p.render(ctx, "summarizer", page)
		}
		// wrap pasted text as a virtual file, the API only accepts uploads
		name := "notes-" + uuid.New().String()[:8] + ".txt"
		payload, err = p.client.SummarizeNotes(reqCtx, token, name, strings.NewReader(text), form.Prompt)
	}
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "summarizer", page)
	}

	if m, ok := payload.(map[string]interface{}); ok {
		if title, ok := m["title"].(string); ok {
			data.Title = title
		}
	}
	data.Summary = normalize.Summary(payload)
	return p.render(ctx, "summarizer", page)
}
