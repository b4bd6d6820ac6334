package economy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nathoo/gacharealm/engine/effects"
	"github.com/nathoo/gacharealm/engine/rng"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// NewPetID generates pet instance IDs. Tests replace it for stable IDs.
var NewPetID = uuid.NewString

// Pool returns the IDs a gacha can produce at a grade, in catalog order.
// Item pools exclude materials.
func Pool(cat *state.Catalog, kind types.GachaKind, grade types.Grade) []string {
	var pool []string
	switch kind {
	case types.GachaItem:
		for _, id := range cat.ItemOrder {
			it := cat.Items[id]
			if it.Grade == grade && it.Kind != types.KindMaterial {
				pool = append(pool, id)
			}
		}
	case types.GachaPet:
		for _, id := range cat.PetOrder {
			if cat.Pets[id].Grade == grade {
				pool = append(pool, id)
			}
		}
	}
	return pool
}

// Draw pays for one gacha pull. The grade is picked by cumulative bucket
// threshold over one Float64 draw, then the result uniformly within that
// grade's pool with one Intn draw.
func Draw(cat *state.Catalog, p types.PlayerState, gachaID string, src rng.Source) (types.PlayerState, types.GachaResult, types.Result, error) {
	g, ok := cat.Gachas[gachaID]
	if !ok {
		return p, types.GachaResult{}, types.Result{}, errors.NotFoundf("no such gacha: %s", gachaID)
	}
	if p.Gold < g.Cost {
		return p, types.GachaResult{}, types.Result{}, errors.Insufficientf("%s costs %d gold; you have %d.", g.Name, g.Cost, p.Gold)
	}
	if len(g.Buckets) == 0 {
		return p, types.GachaResult{}, types.Result{}, errors.Internalf("gacha %s has no buckets", g.ID)
	}

	chances := make([]float64, len(g.Buckets))
	for i, b := range g.Buckets {
		chances[i] = b.Chance
	}
	grade := g.Buckets[rng.Bucket(src, chances)].Grade
	pool := Pool(cat, g.Kind, grade)
	if len(pool) == 0 {
		return p, types.GachaResult{}, types.Result{}, errors.Internalf("gacha %s has an empty %s pool", g.ID, grade)
	}
	pick := pool[src.Intn(len(pool))]

	next := state.Clone(p)
	next.Gold -= g.Cost

	switch g.Kind {
	case types.GachaItem:
		item := cat.Items[pick]
		ref := types.ItemRef{ItemID: pick}
		evts, _ := effects.Apply(cat, &next, []effects.Effect{
			{Kind: effects.Item, Ref: ref, Amount: 1, Source: types.SourceGacha},
		})
		return next, types.GachaResult{Item: &ref}, types.Result{
			Events: evts,
			Output: []string{fmt.Sprintf("%s grants you %s [%s]!", g.Name, item.Name, item.Grade)},
			Lore:   &types.LoreRequest{Name: item.Name, Type: string(item.Kind), Description: item.Description},
		}, nil

	case types.GachaPet:
		def := cat.Pets[pick]
		pet := types.Pet{ID: NewPetID(), Species: pick}
		next.Pets = append(next.Pets, pet)
		return next, types.GachaResult{Pet: &pet}, types.Result{
			Output: []string{fmt.Sprintf("%s grants you a %s [%s]!", g.Name, def.Name, def.Grade)},
		}, nil

	default:
		return p, types.GachaResult{}, types.Result{}, errors.Internalf("unknown gacha kind %q", g.Kind)
	}
}
