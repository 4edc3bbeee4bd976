package nhl

import (
	"context"
	"fmt"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
)

// Boxscore fetches /gamecenter/{id}/boxscore.
func (c *Client) Boxscore(ctx context.Context, gameID int64) (*provider.Boxscore, error) {
	var box provider.Boxscore
	if err := c.getJSON(ctx, c.baseURL, fmt.Sprintf("/gamecenter/%d/boxscore", gameID), &box); err != nil {
		return nil, fmt.Errorf("boxscore %d: %w", gameID, err)
	}
	if box.ID == 0 {
		box.ID = gameID
	}
	return &box, nil
}

// PlayByPlay fetches /gamecenter/{id}/play-by-play.
func (c *Client) PlayByPlay(ctx context.Context, gameID int64) (*provider.PlayByPlay, error) {
	var pbp provider.PlayByPlay
	if err := c.getJSON(ctx, c.baseURL, fmt.Sprintf("/gamecenter/%d/play-by-play", gameID), &pbp); err != nil {
		return nil, fmt.Errorf("play-by-play %d: %w", gameID, err)
	}
	if pbp.ID == 0 {
		pbp.ID = gameID
	}
	return &pbp, nil
}

// GameStory fetches /wsc/game-story/{id}, which carries the scoring summary.
func (c *Client) GameStory(ctx context.Context, gameID int64) (*provider.GameStory, error) {
	var story provider.GameStory
	if err := c.getJSON(ctx, c.baseURL, fmt.Sprintf("/wsc/game-story/%d", gameID), &story); err != nil {
		return nil, fmt.Errorf("game story %d: %w", gameID, err)
	}
	if story.ID == 0 {
		story.ID = gameID
	}
	return &story, nil
}
