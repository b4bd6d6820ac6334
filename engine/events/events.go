// Package events implements single-pass event dispatch into quest progress.
// Completions produced here are reported but never dispatched again.
package events

import (
	"fmt"

	"github.com/nathoo/gacharealm/engine/quest"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/types"
)

// Dispatch advances active quests from the emitted events. Single pass:
// the quest_completed events it returns are informational and never
// re-enter Dispatch.
func Dispatch(cat *state.Catalog, p *types.PlayerState, events []types.Event) ([]types.Event, []string) {
	var completed []types.Event
	var output []string

	for _, event := range events {
		for _, id := range quest.Advance(cat, p, event) {
			completed = append(completed, types.Event{
				Type:    types.EventQuestCompleted,
				Subject: id,
			})
			output = append(output, fmt.Sprintf("Quest complete: %s. Claim your reward.", cat.Quests[id].Title))
		}
	}

	return completed, output
}
