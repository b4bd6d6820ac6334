// Package lore produces flavor text for items through an external text
// generator. Callers go through Describe, which never fails: any error
// degrades to a fixed fallback line.
package lore

//go:generate mockgen -destination=loremock/mock_generator.go -package=loremock github.com/nathoo/gacharealm/lore Generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/nathoo/gacharealm/logger"
	"github.com/nathoo/gacharealm/types"
)

// Fallback is returned whenever the generator fails or returns nothing.
const Fallback = "The records of this item are corrupted, but its worth will surely be proven on the battlefield."

// Request describes the item to write about.
type Request = types.LoreRequest

// Generator turns a request into lore text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Prompt builds the instruction sent to a text model.
func Prompt(req Request) string {
	return fmt.Sprintf(
		"Write an intriguing two to three sentence backstory for the item %q (%s) from a battle royale game. The item's description is: %q",
		req.Name, req.Type, req.Description)
}

// Describe asks gen for lore and falls back on any failure. A nil gen
// always yields the fallback.
func Describe(ctx context.Context, gen Generator, req Request) string {
	if gen == nil {
		return Fallback
	}
	text, err := gen.Generate(ctx, req)
	if err != nil {
		logger.Warning("lore generation failed", "item", req.Name, "error", err)
		return Fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback
	}
	return text
}
