package discord

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/opsline/dailybot/internal/models"
)

// dispatchTimeout bounds one full dispatch, including the survey directive
// follow-up.
const dispatchTimeout = 60 * time.Second

// onInteraction normalizes slash commands and component submissions into
// payloads and applies the router's directive.
func (c *Client) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var payload models.BotRequestPayload
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		payload = c.commandPayload(i)
	case discordgo.InteractionMessageComponent:
		payload = c.componentPayload(i)
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	resp := c.dispatcher.Dispatch(ctx, payload)
	c.respond(i, resp)
	c.applyDirective(ctx, payload.ChannelID, resp)
}

// onMessage replies to bot mentions. Everything else is ignored; the bot is
// slash-command driven.
func (c *Client) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	mentioned := false
	for _, user := range m.Mentions {
		if user.ID == s.State.User.ID {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	resp := c.dispatcher.Dispatch(ctx, models.BotRequestPayload{
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		Type:      models.TypeMention,
		Message:   m.Content,
		Timestamp: c.clock.Now().Unix(),
	})
	if resp.Output != "" {
		if _, err := c.SendMessage(ctx, m.ChannelID, resp.Output); err != nil {
			slog.Warn("Discord.onMessage: reply failed", "error", err, "channelID", m.ChannelID)
		}
	}
}

// commandPayload maps a slash command invocation onto the normalized payload.
func (c *Client) commandPayload(i *discordgo.InteractionCreate) models.BotRequestPayload {
	data := i.ApplicationCommandData()
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}

	payload := models.BotRequestPayload{
		ChannelID: i.ChannelID,
		UserID:    interactionUser(i),
		Command:   data.Name,
		Timestamp: c.clock.Now().Unix(),
	}

	switch data.Name {
	case models.CommandRegister:
		if opt, ok := opts["name"]; ok {
			payload.Result = &models.StepResult{Text: opt.StringValue()}
		}
	case models.StepWorkloadToday, models.StepWorkloadNextWeek:
		if opt, ok := opts["hours"]; ok {
			hours := int(opt.IntValue())
			payload.Result = &models.StepResult{Workload: &hours}
		}
	case models.StepConnectsThisWeek:
		if opt, ok := opts["connects"]; ok {
			n := int(opt.IntValue())
			payload.Result = &models.StepResult{Connects: &n}
		}
	case models.StepDayOffThisWeek, models.StepDayOffNextWeek:
		if opt, ok := opts["dates"]; ok {
			payload.Result = &models.StepResult{DaysSelected: splitDates(opt.StringValue())}
		}
	case models.StepVacation:
		result := &models.StepResult{}
		if opt, ok := opts["start"]; ok {
			result.StartDate = opt.StringValue()
		}
		if opt, ok := opts["end"]; ok {
			result.EndDate = opt.StringValue()
		}
		payload.Result = result
	}
	return payload
}

// componentPayload maps a component submission onto the normalized payload.
// Custom IDs follow "step:<name>", with ":nothing" marking the decline button.
func (c *Client) componentPayload(i *discordgo.InteractionCreate) models.BotRequestPayload {
	data := i.MessageComponentData()
	payload := models.BotRequestPayload{
		ChannelID: i.ChannelID,
		UserID:    interactionUser(i),
		Type:      models.TypeComponent,
		Timestamp: c.clock.Now().Unix(),
	}

	id := strings.TrimPrefix(data.CustomID, customIDStep)
	if stepName, ok := strings.CutSuffix(id, customIDNothing); ok {
		payload.Command = stepName
		payload.Result = &models.StepResult{DaysSelected: []string{models.ValueNothing}}
		return payload
	}
	payload.Command = id

	switch id {
	case models.StepWorkloadToday, models.StepWorkloadNextWeek:
		if hours, ok := firstInt(data.Values); ok {
			payload.Result = &models.StepResult{Workload: &hours}
		}
	case models.StepConnectsThisWeek:
		if n, ok := firstInt(data.Values); ok {
			payload.Result = &models.StepResult{Connects: &n}
		}
	case models.StepDayOffThisWeek, models.StepDayOffNextWeek:
		payload.Result = &models.StepResult{DaysSelected: data.Values}
	}
	return payload
}

// respond answers the interaction. The router's Output wins; an empty Output
// falls back to the machine message so the interaction never hangs.
func (c *Client) respond(i *discordgo.InteractionCreate, resp models.RouterResponse) {
	content := resp.Output
	if content == "" {
		content = resp.Message
	}
	if content == "" {
		content = "✅"
	}
	err := c.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		slog.Warn("Discord.respond: interaction response failed", "error", err, "channelID", i.ChannelID)
	}
}

// applyDirective performs the transport side of a survey directive: showing
// the next step on continue and posting the TODO link on end.
func (c *Client) applyDirective(ctx context.Context, channelID string, resp models.RouterResponse) {
	switch resp.Survey {
	case models.SurveyContinue:
		if resp.NextStep == "" {
			return
		}
		unlock := c.registry.LockChannel(channelID)
		defer unlock()

		flow := c.registry.GetByChannel(channelID)
		if flow == nil {
			return
		}
		var next models.SurveyStep
		for _, step := range flow.Steps() {
			if step.Name == resp.NextStep {
				next = step
				break
			}
		}
		if next.Name == "" {
			return
		}

		if flow.UIRefs.ButtonsMsgID != "" {
			if err := c.DeleteMessage(ctx, channelID, flow.UIRefs.ButtonsMsgID); err != nil {
				slog.Debug("Discord.applyDirective: stale buttons cleanup failed", "error", err, "channelID", channelID)
			}
			flow.UIRefs.ButtonsMsgID = ""
		}
		msgID, err := c.ShowStep(ctx, channelID, next)
		if err != nil {
			slog.Error("Discord.applyDirective: step render failed", "error", err, "channelID", channelID, "step", next.Name)
			return
		}
		flow.UIRefs.ButtonsMsgID = msgID

	case models.SurveyEnd:
		if resp.URL != "" {
			if _, err := c.SendMessage(ctx, channelID, resp.URL); err != nil {
				slog.Warn("Discord.applyDirective: todo link failed", "error", err, "channelID", channelID)
			}
		}
	}
}

func interactionUser(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// splitDates parses a comma-separated dates option.
func splitDates(raw string) []string {
	parts := strings.Split(raw, ",")
	dates := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			dates = append(dates, trimmed)
		}
	}
	return dates
}

func firstInt(values []string) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
