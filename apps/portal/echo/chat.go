package echoportal

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brainbuddy/portal/core/backend"
	"github.com/brainbuddy/portal/core/normalize"
	"github.com/brainbuddy/portal/core/session"
)

type chatData struct {
	Form     TutorForm
	Messages []session.Message
	Video    session.VideoState
}

// AI tutor

func (p *portal) tutorPage(ctx echo.Context) error {
	st := p.state(ctx)
	st.Lock()
	defer st.Unlock()

	page := p.newPage(ctx, "AI Tutor", "tutor")
	page.Data = &chatData{Messages: st.Tutor.Messages}
	return p.render(ctx, "tutor", page)
}

func (p *portal) tutorAsk(ctx echo.Context) error {
	var form TutorForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to TutorForm")
	}

	st := p.state(ctx)
	st.Lock()
	defer st.Unlock()

	page := p.newPage(ctx, "AI Tutor", "tutor")
	data := &chatData{Form: form, Messages: st.Tutor.Messages}
	page.Data = data

	if err := form.Validate(p.validate); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "tutor", page)
	}

	reqCtx := ctx.Request().Context()
	token := authToken(ctx)
	link := p.resolver(ctx).Resolve(reqCtx, token, false)

	payload, err := p.client.AskTutor(reqCtx, token, backend.TutorQuestion{
		Question:  form.Question,
		Subject:   form.Subject,
		Goal:      form.Goal,
		ClassStd:  link.ClassStd,
		SessionID: st.Tutor.Tracker.ID(),
	})
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "tutor", page)
	}

	st.Tutor.Tracker.Observe(payload)
	st.Tutor.Append(session.RoleUser, form.Question)
	st.Tutor.Append(session.RoleAssistant, normalize.Answer(payload))
	data.Messages = st.Tutor.Messages
	data.Form.Question = ""
	return p.render(ctx, "tutor", page)
}

func (p *portal) tutorReset(ctx echo.Context) error {
	st := p.state(ctx)
	st.Lock()
	st.Tutor.Reset()
	st.Unlock()
	return ctx.Redirect(http.StatusFound, "/tutor")
}

// edu chat

func (p *portal) eduPage(ctx echo.Context) error {
	st := p.state(ctx)
	st.Lock()
	defer st.Unlock()

	page := p.newPage(ctx, "Edu Chat", "educhat")
	page.Data = &chatData{Messages: st.Edu.Messages}
	return p.render(ctx, "educhat", page)
}

func (p *portal) eduAsk(ctx echo.Context) error {
	var form QuestionForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to QuestionForm")
	}

	st := p.state(ctx)
	st.Lock()
	defer st.Unlock()

	page := p.newPage(ctx, "Edu Chat", "educhat")
	data := &chatData{Messages: st.Edu.Messages}
	page.Data = data

	if err := form.Validate(p.validate); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "educhat", page)
	}

	payload, err := p.client.Chat(ctx.Request().Context(), authToken(ctx), form.Question, st.Edu.Tracker.ID())
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "educhat", page)
	}

	st.Edu.Tracker.Observe(payload)
	st.Edu.Append(session.RoleUser, form.Question)
	st.Edu.Append(session.RoleAssistant, normalize.Answer(payload))
	data.Messages = st.Edu.Messages
	return p.render(ctx, "educhat", page)
}

func (p *portal) eduReset(ctx echo.Context) error {
	st := p.state(ctx)
	st.Lock()
	st.Edu.Reset()
	st.Unlock()
	return ctx.Redirect(http.StatusFound, "/educhat")
}

// youtube chat

func (p *portal) youtubePage(ctx echo.Context) error {
	st := p.state(ctx)
	st.Lock()
	defer st.Unlock()

	page := p.newPage(ctx, "YouTube Chat", "youtube")
	page.Data = &chatData{Messages: st.YouTube.Messages, Video: st.Video}
	return p.render(ctx, "youtube", page)
}

func (p *portal) youtubeLoad(ctx echo.Context) error {
	var form VideoLoadForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to VideoLoadForm")
	}

	st := p.state(ctx)
	st.Lock()
	defer st.Unlock()

	page := p.newPage(ctx, "YouTube Chat", "youtube")
	data := &chatData{Messages: st.YouTube.Messages, Video: st.Video}
	page.Data = data

	if err := form.Validate(p.validate); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "youtube", page)
	}

	payload, err := p.client.LoadVideo(ctx.Request().Context(), authToken(ctx), form.Input)
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "youtube", page)
	}

	video := session.VideoState{Transcript: normalize.Transcript(payload)}
	if id, ok := payload["video_id"].(string); ok {
		video.ID = id
	}
	if title, ok := payload["title"].(string); ok {
		video.Title = title
	}

	// loading a new video starts a fresh conversation
	st.YouTube.Reset()
	st.YouTube.Tracker.Observe(payload)
	if video.ID != "" {
		st.YouTube.Tracker.SetFallback("video_id", video.ID)
	}
	st.Video = video
	data.Video = video
	data.Messages = nil
	return p.render(ctx, "youtube", page)
}

func (p *portal) youtubeAsk(ctx echo.Context) error {
	var form QuestionForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to QuestionForm")
	}

	st := p.state(ctx)
	st.Lock()
	defer st.Unlock()

	page := p.newPage(ctx, "YouTube Chat", "youtube")
	data := &chatData{Messages: st.YouTube.Messages, Video: st.Video}
	page.Data = data

	if err := form.Validate(p.validate); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "youtube", page)
	}

	sid := st.YouTube.Tracker.ID()
	_, videoID := st.YouTube.Tracker.Fallback()
	if sid == "" && videoID == "" {
		page.Error = "Load a video first."
		return p.render(ctx, "youtube", page)
	}

	answer, err := p.client.AskVideo(ctx.Request().Context(), authToken(ctx), form.Question, sid, videoID)
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "youtube", page)
	}

	st.YouTube.Append(session.RoleUser, form.Question)
	st.YouTube.Append(session.RoleAssistant, answer)
	data.Messages = st.YouTube.Messages
	return p.render(ctx, "youtube", page)
}

func (p *portal) youtubeReset(ctx echo.Context) error {
	st := p.state(ctx)
	st.Lock()
	st.YouTube.Reset()
	st.Video = session.VideoState{}
	st.Unlock()
	return ctx.Redirect(http.StatusFound, "/youtube")
}
