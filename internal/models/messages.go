// Package models holds the user-visible message strings.
//
// All user-facing text is Ukrainian. The generic failure string is stable and
// checked by downstream automation; do not reword it.
package models

import (
	"fmt"
	"strings"
)

const (
	// MsgTryLater is the generic failure reply.
	MsgTryLater = "Спробуй трохи піздніше. Я тут пораюсь по хаті."

	// MsgMention is the fixed reply to bot mentions.
	MsgMention = "Користуйся слеш-командами, почни з /"

	// MsgNotRegistered is sent when a channel has no directory record.
	MsgNotRegistered = "Канал не зареєстровано. Скористайся командою /register."

	// MsgChannelTaken is sent when registration targets a channel bound to
	// someone else.
	MsgChannelTaken = "Канал вже зареєстрований на когось іншого."

	// MsgPublicChannel rejects registration of a public channel.
	MsgPublicChannel = "Це публічний канал, його не можна зареєструвати."

	// MsgUnregistered confirms clearing a channel binding.
	MsgUnregistered = "Готово. Канал більше не зареєстрований."

	// MsgAllStepsDone is posted when no survey steps remain this week.
	MsgAllStepsDone = "На цьому тижні все заповнено. Гарного дня!"

	// MsgSurveyGreeting opens a daily survey.
	MsgSurveyGreeting = "Привіт! Час для щоденного опитування."

	// MsgSurveyCancelled confirms an explicit cancel.
	MsgSurveyCancelled = "Опитування скасовано."

	// MsgSurveyTimedOut is the short notice after a UI timeout.
	MsgSurveyTimedOut = "Час вийшов, повернемось до цього пізніше."

	// MsgNothingPlanned confirms an explicit day-off decline.
	MsgNothingPlanned = "Добре, вихідних не заплановано."

	// MsgUnknownCommand is the command-mode reply for an unknown command.
	MsgUnknownCommand = "Не знаю такої команди. Почни з /"

	// MsgNameNotFound is sent when registration names someone absent from
	// the directory.
	MsgNameNotFound = "Не знайшов такого імені в довіднику."
)

// MsgRegistered confirms a channel registration.
func MsgRegistered(name string) string {
	return fmt.Sprintf("Канал успішно зареєстровано на %s", name)
}

// MsgInvalidDate names the offending date of a day-off submission.
func MsgInvalidDate(date string) string {
	return fmt.Sprintf("Некоректна дата: %s", date)
}

// MsgNoHandler reports a survey step without a registered handler.
func MsgNoHandler(step string) string {
	return fmt.Sprintf("no handler for %s", step)
}

// MsgWorkloadToday reports today's plan, the week's recorded facts, and the
// weekly capacity.
func MsgWorkloadToday(planned, recorded, capacity int) string {
	return fmt.Sprintf(
		"Записав %d год. на сьогодні.\nВідмічено цього тижня: %d год.\nТижнева капасіті: %d год.",
		planned, recorded, capacity)
}

// MsgWorkloadNextWeek confirms the next-week plan.
func MsgWorkloadNextWeek(hours int) string {
	return fmt.Sprintf("Записав. План на наступний тиждень: %d год.", hours)
}

// MsgConnects confirms the weekly connects count.
func MsgConnects(n int) string {
	return fmt.Sprintf("Записав. Коннектів цього тижня: %d.", n)
}

// MsgDayOff lists the recorded day-off dates.
func MsgDayOff(dates []string) string {
	return fmt.Sprintf("Записав. Вихідні: %s.", strings.Join(dates, ", "))
}

// MsgVacation confirms a vacation range with Ukrainian weekday and month
// names for both endpoints.
func MsgVacation(start, end string) string {
	return fmt.Sprintf("Записав відпустку з %s до %s. Гарного відпочинку!", start, end)
}

// MsgCheckChannelRegistered reports the channel owner.
func MsgCheckChannelRegistered(name string) string {
	return fmt.Sprintf("Канал зареєстровано на %s.", name)
}
