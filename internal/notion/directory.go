package notion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jomei/notionapi"

	"github.com/opsline/dailybot/internal/models"
)

// FindByChannel returns the directory record bound to a channel, or nil.
func (c *Client) FindByChannel(ctx context.Context, channelID string) (*models.DirectoryRecord, error) {
	page, err := c.queryOne(ctx, c.directoryDB, notionapi.PropertyFilter{
		Property: propChannelID,
		RichText: &notionapi.TextFilterCondition{Equals: channelID},
	}, "directory.FindByChannel")
	if err != nil {
		return nil, fmt.Errorf("%w: find by channel: %v", models.ErrDirectoryUnavailable, err)
	}
	if page == nil {
		slog.Debug("notion.FindByChannel: no record", "channelID", channelID)
		return nil, nil
	}
	return directoryRecord(page), nil
}

// FindByName returns the directory record for a member name, or nil.
func (c *Client) FindByName(ctx context.Context, name string) (*models.DirectoryRecord, error) {
	page, err := c.queryOne(ctx, c.directoryDB, notionapi.PropertyFilter{
		Property: propName,
		RichText: &notionapi.TextFilterCondition{Equals: name},
	}, "directory.FindByName")
	if err != nil {
		return nil, fmt.Errorf("%w: find by name: %v", models.ErrDirectoryUnavailable, err)
	}
	if page == nil {
		slog.Debug("notion.FindByName: no record", "name", name)
		return nil, nil
	}
	return directoryRecord(page), nil
}

// UpdateIDs binds a Discord user and channel to a directory page.
func (c *Client) UpdateIDs(ctx context.Context, pageID, discordID, channelID string) error {
	err := c.withRetry(ctx, "directory.UpdateIDs", func() error {
		_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
			Properties: notionapi.Properties{
				propDiscordID: richText(discordID),
				propChannelID: richText(channelID),
			},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: update ids: %v", models.ErrNotionError, err)
	}
	slog.Info("notion.UpdateIDs: directory page bound", "pageID", pageID, "channelID", channelID)
	return nil
}

// ClearIDs unbinds a directory page from Discord.
func (c *Client) ClearIDs(ctx context.Context, pageID string) error {
	err := c.withRetry(ctx, "directory.ClearIDs", func() error {
		_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
			Properties: notionapi.Properties{
				propDiscordID: richText(""),
				propChannelID: richText(""),
			},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: clear ids: %v", models.ErrNotionError, err)
	}
	slog.Info("notion.ClearIDs: directory page unbound", "pageID", pageID)
	return nil
}

// ListRegistered returns every directory record with a bound channel,
// excluding public channels. The daily kick iterates this set.
func (c *Client) ListRegistered(ctx context.Context) ([]models.DirectoryRecord, error) {
	var records []models.DirectoryRecord
	err := c.withRetry(ctx, "directory.ListRegistered", func() error {
		records = records[:0]
		cursor := notionapi.Cursor("")
		for {
			resp, err := c.api.Database.Query(ctx, c.directoryDB, &notionapi.DatabaseQueryRequest{
				Filter: notionapi.PropertyFilter{
					Property: propChannelID,
					RichText: &notionapi.TextFilterCondition{IsNotEmpty: true},
				},
				StartCursor: cursor,
				PageSize:    100,
			})
			if err != nil {
				return err
			}
			for i := range resp.Results {
				rec := directoryRecord(&resp.Results[i])
				if rec.IsPublic {
					continue
				}
				records = append(records, *rec)
			}
			if !resp.HasMore {
				return nil
			}
			cursor = resp.NextCursor
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list registered: %v", models.ErrDirectoryUnavailable, err)
	}
	slog.Debug("notion.ListRegistered: fetched", "count", len(records))
	return records, nil
}

func directoryRecord(page *notionapi.Page) *models.DirectoryRecord {
	return &models.DirectoryRecord{
		PageID:    page.ID.String(),
		Name:      titleValue(page.Properties[propName]),
		DiscordID: richTextValue(page.Properties[propDiscordID]),
		ChannelID: richTextValue(page.Properties[propChannelID]),
		TodoURL:   urlValue(page.Properties[propTodoURL]),
		IsPublic:  checkboxValue(page.Properties[propPublic]),
	}
}
