package app

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/QuestWing/internal/effects"
	"github.com/josephgoksu/QuestWing/internal/progression"
	"github.com/josephgoksu/QuestWing/models"
)

// CharacterView is the character plus its derived sheet.
type CharacterView struct {
	Character *models.Character
	Sheet     progression.Sheet
	Exists    bool
}

// Character loads the character and derives its sheet at the current time.
// Expired power-ups are dropped from the view but not persisted.
func (a *QuestApp) Character() (*CharacterView, error) {
	ch, exists, err := a.ctx.Characters.Load()
	if err != nil {
		return nil, err
	}
	now := a.ctx.now()
	effects.Prune(ch, now)
	return &CharacterView{Character: ch, Sheet: progression.Derive(ch, now), Exists: exists}, nil
}

// ChangeClass switches the primary class, spending XP.
func (a *QuestApp) ChangeClass(to string) (*ActionResult, error) {
	ch, _, err := a.ctx.Characters.Load()
	if err != nil {
		return nil, err
	}
	change, err := progression.ChangeClass(ch, to)
	if err != nil {
		res := &ActionResult{Success: false, Message: err.Error()}
		if errors.Is(err, progression.ErrInsufficientXP) {
			res.Hint = "Complete more quests before switching class."
		}
		return res, nil
	}
	res := &ActionResult{
		Success: true,
		Changed: true,
		Message: fmt.Sprintf("Class changed: %s → %s (-%d XP)", change.From, change.To, change.Cost),
	}
	if change.LevelUp.NewLevel != change.LevelUp.OldLevel {
		lu := change.LevelUp
		res.LevelUp = &lu
		res.notice("Level %d → %d", lu.OldLevel, lu.NewLevel)
	}
	if err := a.saveCharacter(res, ch); err != nil {
		return res, err
	}
	return res, nil
}

// SetSecondaryClass assigns or clears the secondary class.
func (a *QuestApp) SetSecondaryClass(id string) (*ActionResult, error) {
	ch, _, err := a.ctx.Characters.Load()
	if err != nil {
		return nil, err
	}
	if err := progression.SetSecondaryClass(ch, id); err != nil {
		return &ActionResult{Success: false, Message: err.Error()}, nil
	}
	msg := "Secondary class cleared."
	if id != "" {
		msg = fmt.Sprintf("Secondary class set to %s.", ch.SecondaryClass)
	}
	res := &ActionResult{Success: true, Changed: true, Message: msg}
	if err := a.saveCharacter(res, ch); err != nil {
		return res, err
	}
	return res, nil
}

// SetMode selects the active XP track.
func (a *QuestApp) SetMode(mode models.ProgressionMode) (*ActionResult, error) {
	if mode != models.ModeMain && mode != models.ModeTraining {
		return &ActionResult{Success: false, Message: fmt.Sprintf("unknown progression mode %q", mode)}, nil
	}
	ch, _, err := a.ctx.Characters.Load()
	if err != nil {
		return nil, err
	}
	if ch.Mode == mode {
		return &ActionResult{Success: true, Message: fmt.Sprintf("Already on the %s track.", mode)}, nil
	}
	ch.Mode = mode
	res := &ActionResult{Success: true, Changed: true, Message: fmt.Sprintf("Switched to the %s track.", mode)}
	if err := a.saveCharacter(res, ch); err != nil {
		return res, err
	}
	return res, nil
}
