package effects

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/QuestWing/models"
)

// Definition is a power-up catalog entry.
type Definition struct {
	ID          string
	Name        string
	Description string
	Effect      models.EffectType
	Value       float64
	Stat        models.Stat
	// Duration of zero makes the power-up passive.
	Duration  time.Duration
	Policy    models.CollisionPolicy
	MaxStacks int
}

// PoolEntry is one weighted choice in a pool.
type PoolEntry struct {
	PowerUpID string
	Weight    int
}

// Pool is a named weighted table of power-ups.
type Pool struct {
	ID      string
	Entries []PoolEntry
}

// Catalog holds power-up definitions and draw pools.
type Catalog struct {
	defs  map[string]Definition
	pools map[string]Pool
}

// NewCatalog builds a catalog from definitions and pools.
func NewCatalog(defs []Definition, pools []Pool) *Catalog {
	c := &Catalog{defs: make(map[string]Definition), pools: make(map[string]Pool)}
	for _, d := range defs {
		c.defs[d.ID] = d
	}
	for _, p := range pools {
		c.pools[p.ID] = p
	}
	return c
}

// DefaultCatalog returns the built-in power-ups.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Definition{
		{ID: "momentum", Name: "Momentum", Description: "+25% XP for a day", Effect: models.EffectXPMultiplier, Value: 1.25, Duration: 24 * time.Hour, Policy: models.CollisionExtend},
		{ID: "focus", Name: "Deep Focus", Description: "+10% XP, stacks three times", Effect: models.EffectXPMultiplier, Value: 1.10, Duration: 12 * time.Hour, Policy: models.CollisionStack, MaxStacks: 3},
		{ID: "heroic-surge", Name: "Heroic Surge", Description: "+50% XP for an hour", Effect: models.EffectXPMultiplier, Value: 1.5, Duration: time.Hour, Policy: models.CollisionReject},
		{ID: "iron-will", Name: "Iron Will", Description: "+2 constitution for three days", Effect: models.EffectStatBoost, Stat: models.StatConstitution, Value: 2, Duration: 72 * time.Hour, Policy: models.CollisionReplace},
		{ID: "sharp-mind", Name: "Sharp Mind", Description: "+2 intelligence for a day", Effect: models.EffectStatBoost, Stat: models.StatIntelligence, Value: 2, Duration: 24 * time.Hour, Policy: models.CollisionExtend},
		{ID: "swift-feet", Name: "Swift Feet", Description: "+2 dexterity for a day", Effect: models.EffectStatBoost, Stat: models.StatDexterity, Value: 2, Duration: 24 * time.Hour, Policy: models.CollisionExtend},
		{ID: "second-wind", Name: "Second Wind", Description: "+1 wisdom while it lasts", Effect: models.EffectStatBoost, Stat: models.StatWisdom, Value: 1, Policy: models.CollisionReject},
	}, []Pool{
		{ID: "common", Entries: []PoolEntry{{"sharp-mind", 4}, {"swift-feet", 4}, {"focus", 2}}},
		{ID: "rare", Entries: []PoolEntry{{"momentum", 3}, {"iron-will", 2}, {"heroic-surge", 1}}},
	})
}

// Definition looks up a power-up by id.
func (c *Catalog) Definition(id string) (Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Definitions returns every definition sorted by id.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Draw picks a power-up from a pool by weight. Entries that do not resolve
// to a definition or carry no weight are skipped.
func (c *Catalog) Draw(poolID string, rng *rand.Rand) (Definition, bool) {
	pool, ok := c.pools[poolID]
	if !ok {
		return Definition{}, false
	}
	total := 0
	for _, e := range pool.Entries {
		if _, ok := c.defs[e.PowerUpID]; ok && e.Weight > 0 {
			total += e.Weight
		}
	}
	if total == 0 {
		return Definition{}, false
	}
	roll := rng.Intn(total)
	for _, e := range pool.Entries {
		d, ok := c.defs[e.PowerUpID]
		if !ok || e.Weight <= 0 {
			continue
		}
		if roll < e.Weight {
			return d, true
		}
		roll -= e.Weight
	}
	return Definition{}, false
}

// GrantAction is what Grant did.
type GrantAction string

const (
	GrantAdded    GrantAction = "added"
	GrantReplaced GrantAction = "replaced"
	GrantStacked  GrantAction = "stacked"
	GrantExtended GrantAction = "extended"
	GrantRejected GrantAction = "rejected"
)

// GrantResult reports a power-up grant.
type GrantResult struct {
	Action  GrantAction
	PowerUp models.PowerUp
}

// Granted reports whether the character's buffs changed.
func (g GrantResult) Granted() bool { return g.Action != GrantRejected }

func newInstance(def Definition, now time.Time) models.PowerUp {
	p := models.PowerUp{
		InstanceID: uuid.NewString(),
		ID:         def.ID,
		Name:       def.Name,
		Effect:     def.Effect,
		Value:      def.Value,
		Stat:       def.Stat,
		Stacks:     1,
		GrantedAt:  now,
	}
	if def.Duration > 0 {
		exp := now.Add(def.Duration)
		p.ExpiresAt = &exp
	}
	return p
}

// Grant applies def to the character, resolving a collision with an active
// copy of the same power-up by the definition's policy. Expired copies are
// pruned first so they never collide.
func Grant(ch *models.Character, def Definition, now time.Time) GrantResult {
	Prune(ch, now)
	idx := -1
	for i, p := range ch.PowerUps {
		if p.ID == def.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		p := newInstance(def, now)
		ch.PowerUps = append(ch.PowerUps, p)
		return GrantResult{Action: GrantAdded, PowerUp: p}
	}

	existing := &ch.PowerUps[idx]
	switch def.Policy {
	case models.CollisionReplace:
		p := newInstance(def, now)
		ch.PowerUps[idx] = p
		return GrantResult{Action: GrantReplaced, PowerUp: p}
	case models.CollisionStack:
		if def.MaxStacks <= 0 || existing.Stacks < def.MaxStacks {
			existing.Stacks++
		}
		if def.Duration > 0 {
			exp := now.Add(def.Duration)
			existing.ExpiresAt = &exp
		}
		return GrantResult{Action: GrantStacked, PowerUp: *existing}
	case models.CollisionExtend:
		if def.Duration > 0 && existing.ExpiresAt != nil {
			exp := existing.ExpiresAt.Add(def.Duration)
			existing.ExpiresAt = &exp
		}
		return GrantResult{Action: GrantExtended, PowerUp: *existing}
	default:
		return GrantResult{Action: GrantRejected, PowerUp: *existing}
	}
}

// Prune removes expired power-ups and returns them.
func Prune(ch *models.Character, now time.Time) []models.PowerUp {
	var kept, removed []models.PowerUp
	for _, p := range ch.PowerUps {
		if p.Expired(now) {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	ch.PowerUps = kept
	return removed
}
