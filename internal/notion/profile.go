package notion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jomei/notionapi"

	"github.com/opsline/dailybot/internal/models"
)

// GetByName returns the profile stats page ID for a member, or "" when the
// member has no stats page.
func (c *Client) GetByName(ctx context.Context, name string) (string, error) {
	page, err := c.queryOne(ctx, c.profileDB, notionapi.PropertyFilter{
		Property: propName,
		RichText: &notionapi.TextFilterCondition{Equals: name},
	}, "profile.GetByName")
	if err != nil {
		return "", fmt.Errorf("%w: profile page: %v", models.ErrNotionError, err)
	}
	if page == nil {
		slog.Debug("notion.GetByName: no profile page", "name", name)
		return "", nil
	}
	return page.ID.String(), nil
}

// UpdateConnects writes the weekly connects count onto a profile page.
func (c *Client) UpdateConnects(ctx context.Context, pageID string, n int) error {
	err := c.withRetry(ctx, "profile.UpdateConnects", func() error {
		_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
			Properties: notionapi.Properties{
				propConnects: &notionapi.NumberProperty{Number: float64(n)},
			},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: update connects: %v", models.ErrNotionError, err)
	}
	slog.Info("notion.UpdateConnects: connects recorded", "pageID", pageID, "connects", n)
	return nil
}
