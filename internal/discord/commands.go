package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/opsline/dailybot/internal/models"
)

// commandDefs is the slash-command surface. Every survey step is also a
// standalone command, so answers can be corrected outside a survey.
func commandDefs() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        models.CommandRegister,
			Description: "Зареєструвати цей канал на своє ім'я",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Ім'я з довідника команди",
				Required:    true,
			}},
		},
		{
			Name:        models.CommandUnregister,
			Description: "Відв'язати цей канал",
		},
		{
			Name:        models.CommandSurvey,
			Description: "Почати щоденне опитування",
		},
		{
			Name:        models.CommandCancel,
			Description: "Скасувати активне опитування",
		},
		{
			Name:        models.CommandCheckChannel,
			Description: "Перевірити, на кого зареєстровано канал",
		},
		{
			Name:        models.StepWorkloadToday,
			Description: "Записати план годин на сьогодні",
			Options:     []*discordgo.ApplicationCommandOption{hoursOption()},
		},
		{
			Name:        models.StepWorkloadNextWeek,
			Description: "Записати план годин на наступний тиждень",
			Options:     []*discordgo.ApplicationCommandOption{hoursOption()},
		},
		{
			Name:        models.StepConnectsThisWeek,
			Description: "Записати витрачені коннекти за тиждень",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "connects",
				Description: "Кількість коннектів",
				Required:    true,
			}},
		},
		{
			Name:        models.StepDayOffThisWeek,
			Description: "Записати вихідні на цей тиждень",
			Options:     []*discordgo.ApplicationCommandOption{datesOption()},
		},
		{
			Name:        models.StepDayOffNextWeek,
			Description: "Записати вихідні на наступний тиждень",
			Options:     []*discordgo.ApplicationCommandOption{datesOption()},
		},
		{
			Name:        models.StepVacation,
			Description: "Записати відпустку",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "start",
					Description: "Початок, YYYY-MM-DD HH:MM",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "end",
					Description: "Кінець, YYYY-MM-DD HH:MM",
					Required:    true,
				},
			},
		},
	}
}

func hoursOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "hours",
		Description: "Кількість годин",
		Required:    true,
	}
}

func datesOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "dates",
		Description: "Дати через кому, YYYY-MM-DD, або Nothing",
		Required:    true,
	}
}

func (c *Client) registerCommands() error {
	appID := c.session.State.User.ID
	for _, def := range commandDefs() {
		created, err := c.session.ApplicationCommandCreate(appID, c.guildID, def)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", def.Name, err)
		}
		c.commandIDs = append(c.commandIDs, created.ID)
	}
	slog.Info("Discord.registerCommands: commands registered", "count", len(c.commandIDs))
	return nil
}
