package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/timeutil"
)

// Custom ID prefixes for interactive components. The step name rides after
// the prefix.
const (
	customIDStep    = "step:"
	customIDNothing = ":nothing"
)

const maxHourOption = 12

// SendMessage posts a plain message and returns its ID.
func (c *Client) SendMessage(ctx context.Context, channelID, body string) (string, error) {
	msg, err := c.session.ChannelMessageSend(channelID, body)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// EditMessage replaces a message's content.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID, body string) error {
	if _, err := c.session.ChannelMessageEdit(channelID, messageID, body); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// ShowStep renders one survey step with its interactive controls and returns
// the created message ID.
func (c *Client) ShowStep(ctx context.Context, channelID string, step models.SurveyStep) (string, error) {
	msg, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    step.Description,
		Components: c.stepComponents(step.Name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render step %s: %w", step.Name, err)
	}
	slog.Debug("Discord.ShowStep: step rendered", "channelID", channelID, "step", step.Name, "messageID", msg.ID)
	return msg.ID, nil
}

// stepComponents builds the controls for a step. Vacation has no components;
// the prompt asks for the /vacation command with explicit dates.
func (c *Client) stepComponents(stepName string) []discordgo.MessageComponent {
	switch stepName {
	case models.StepWorkloadToday, models.StepWorkloadNextWeek:
		return []discordgo.MessageComponent{
			selectRow(customIDStep+stepName, "Години", hourOptions(), 1),
		}
	case models.StepConnectsThisWeek:
		return []discordgo.MessageComponent{
			selectRow(customIDStep+stepName, "Коннекти", hourOptions(), 1),
		}
	case models.StepDayOffThisWeek:
		return dayOffComponents(stepName, c.weekDates(0))
	case models.StepDayOffNextWeek:
		return dayOffComponents(stepName, c.weekDates(7))
	default:
		return nil
	}
}

func dayOffComponents(stepName string, dates []string) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(dates))
	for _, date := range dates {
		options = append(options, discordgo.SelectMenuOption{Label: date, Value: date})
	}
	return []discordgo.MessageComponent{
		selectRow(customIDStep+stepName, "Дати", options, len(options)),
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    models.ValueNothing,
					Style:    discordgo.SecondaryButton,
					CustomID: customIDStep + stepName + customIDNothing,
				},
			},
		},
	}
}

func selectRow(customID, placeholder string, options []discordgo.SelectMenuOption, maxValues int) discordgo.MessageComponent {
	minValues := 1
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    customID,
				Placeholder: placeholder,
				MinValues:   &minValues,
				MaxValues:   maxValues,
				Options:     options,
			},
		},
	}
}

func hourOptions() []discordgo.SelectMenuOption {
	options := make([]discordgo.SelectMenuOption, 0, maxHourOption+1)
	for i := 0; i <= maxHourOption; i++ {
		label := strconv.Itoa(i)
		options = append(options, discordgo.SelectMenuOption{Label: label, Value: label})
	}
	return options
}

// weekDates returns the seven ISO dates of the week offset days ahead of the
// current Kyiv week.
func (c *Client) weekDates(offset int) []string {
	start := timeutil.WeekStart(c.clock.NowIn(timeutil.Kyiv)).AddDate(0, 0, offset)
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return dates
}
