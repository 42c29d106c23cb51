package notion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jomei/notionapi"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/timeutil"
)

// FindRow returns a member's workload row, or nil. Fact columns are named
// "Mon Fact" through "Sun Fact".
func (c *Client) FindRow(ctx context.Context, name string) (*ports.WorkloadRow, error) {
	page, err := c.queryOne(ctx, c.workloadDB, notionapi.PropertyFilter{
		Property: propName,
		RichText: &notionapi.TextFilterCondition{Equals: name},
	}, "workload.FindRow")
	if err != nil {
		return nil, fmt.Errorf("%w: workload row: %v", models.ErrNotionError, err)
	}
	if page == nil {
		slog.Debug("notion.FindRow: no workload row", "name", name)
		return nil, nil
	}

	row := &ports.WorkloadRow{
		PageID:   page.ID.String(),
		Capacity: numberValue(page.Properties[propCapacity]),
	}
	for i := 0; i < 7; i++ {
		row.Facts[i] = numberValue(page.Properties[timeutil.DayShort(i)+" Fact"])
	}
	return row, nil
}

// UpdateField writes an hours number into one workload column.
func (c *Client) UpdateField(ctx context.Context, pageID, field string, hours int) error {
	err := c.withRetry(ctx, "workload.UpdateField", func() error {
		_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
			Properties: notionapi.Properties{
				field: &notionapi.NumberProperty{Number: float64(hours)},
			},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", models.ErrNotionError, field, err)
	}
	slog.Info("notion.UpdateField: workload updated", "pageID", pageID, "field", field, "hours", hours)
	return nil
}
