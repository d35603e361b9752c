package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStage reports a stage without a definition or ordinal. It is a
	// configuration defect and should be caught by Validate at startup.
	ErrUnknownStage = errors.New("flow: unknown stage")
	// ErrInvalidTransition reports a succession request for a stage outside the
	// linear order, i.e. the menu state.
	ErrInvalidTransition = errors.New("flow: invalid transition")
)

// MenuEntry binds a human-readable keyboard label to a script stage.
type MenuEntry struct {
	Label  string
	Target Stage
}

// Catalog is the static stage table: definitions, the cyclic order, and the
// menu label lookup. It is immutable after construction.
type Catalog struct {
	order   []Stage
	ordinal map[Stage]int
	defs    map[Stage]Definition
	menu    []MenuEntry
	menuIdx map[string]Stage
}

// NewCatalog builds the built-in onboarding script.
func NewCatalog() *Catalog {
	menu := []MenuEntry{
		{Label: "Роли", Target: StageRed},
		{Label: "Голосование", Target: StageVoting},
		{Label: "Ночь", Target: StageNight},
		{Label: "Словарь", Target: StageDict},
		{Label: "Проверка знаний", Target: StageTestQ1},
		{Label: "Мастер-классы", Target: StageMCStart},
		{Label: "Где играть", Target: StageWhere},
		{Label: "Сначала", Target: StageStart},
	}

	defs := []Definition{
		{Stage: StageStart, Steps: []Step{
			{Keyboard: []string{"Да"}},
			{Media: MediaPhoto, MediaFile: "start.jpg"},
		}},
		prompt(StageAfterStart, "Да!"),
		{Stage: StageChooseName, Steps: []Step{
			{},
			{TextSuffix: "2", RemoveKeyboard: true},
		}},
		prompt(StageAfterName, "Готов"),
		prompt(StageCommon, "Теперь хочу узнать про роли!"),
		role(StageRed, "Так, а комиссар тоже мирный житель? 🕵️"),
		role(StageYellow, "А теперь про мафию 😈"),
		role(StageBlack, "А кто такой дон мафии? 👀"),
		role(StageGray, "Так-так-так, а как понять куда стрелять?😅"),
		prompt(StageHowToFire, "Вроде понятно. Что дальше? ☀️"),
		prompt(StageFirstDay, "Так-так, а как голосовать? 🤔"),
		{Stage: StageVoting, Steps: []Step{
			{TextSuffix: "1"},
			{Media: MediaVideo, MediaFile: "voting.gif", TextSuffix: "2", Keyboard: []string{"А потом что? 🤓"}},
		}},
		prompt(StageFire, "А дон мафии и комиссар? 🕵️"),
		{Stage: StageNight, Steps: []Step{
			{TextSuffix: "1"},
			{Media: MediaVideo, MediaFile: "night.gif", TextSuffix: "2", Keyboard: []string{"Это все? Уже можно играть?😝"}},
		}},
		prompt(StageFaults, "То есть, не в свою минуту нельзя общаться? 😧️"),
		{Stage: StageWho, Steps: []Step{
			{},
			{Media: MediaPhoto, MediaFile: "who.jpg", TextSuffix: "2", Keyboard: []string{"А есть еще что-то важное, чтобы сейчас узнать?"}},
		}},
		prompt(StageDict, "️Теперь проверка знаний!"),
		{Stage: StageTestQ1, Answer: "Мирный житель", Steps: []Step{
			{Keyboard: []string{"Дон мафии", "Маньяк", "Мафия", "Шериф", "Мирный житель"}},
		}},
		{Stage: StageTestQ2, Answer: "Игрок № 5 - мирный житель", Steps: []Step{
			{Keyboard: []string{
				"Игрок № 5 - мафия",
				"Игрок № 5 - мирный житель",
				"Вы мафия",
				"Игрок № 1 - шериф",
			}},
		}},
		{Stage: StageTestQ3, Answer: "Первой ночью стреляем в игрока 1, следующей в 6, потом в 4.", Steps: []Step{
			{Keyboard: []string{
				"Стреляем в первую ночь и в 1, и в 6, и в 4",
				"Первой ночью стреляем в игрока 1, следующей в 6, потом в 4.",
				"Нужно проснуться ночью: когда назовут 1",
			}},
		}},
		prompt(StageTestEnd, "Я уже поиграл! 😎"),
		prompt(StageMCStart, "Да 😁"),
		prompt(StageMC1, "Так, а что еще посмотреть? 🤔"),
		prompt(StageMC2, "Супер! 😍"),
		prompt(StageMC3, "А где можно поиграть? 😇"),
		prompt(StageWhere, "😋😋😋"),
		{Stage: StageEnd, Terminal: true, Steps: []Step{
			{Keyboard: labels(menu)},
		}},
	}

	order := make([]Stage, 0, len(defs))
	for _, d := range defs {
		order = append(order, d.Stage)
	}
	return newCatalog(order, defs, menu)
}

func newCatalog(order []Stage, defs []Definition, menu []MenuEntry) *Catalog {
	c := &Catalog{
		order:   order,
		ordinal: make(map[Stage]int, len(order)),
		defs:    make(map[Stage]Definition, len(defs)),
		menu:    menu,
		menuIdx: make(map[string]Stage, len(menu)),
	}
	for i, s := range order {
		c.ordinal[s] = i
	}
	for _, d := range defs {
		c.defs[d.Stage] = d
	}
	for _, e := range menu {
		c.menuIdx[e.Label] = e.Target
	}
	return c
}

func prompt(s Stage, next string) Definition {
	return Definition{Stage: s, Steps: []Step{{Keyboard: []string{next}}}}
}

func role(s Stage, next string) Definition {
	return Definition{Stage: s, Steps: []Step{
		{TextSuffix: "1"},
		{Media: MediaPhoto, MediaFile: string(s) + ".jpg", TextSuffix: "2", Keyboard: []string{next}},
	}}
}

func labels(menu []MenuEntry) []string {
	out := make([]string, 0, len(menu))
	for _, e := range menu {
		out = append(out, e.Label)
	}
	return out
}

// Definition returns the definition of a stage.
func (c *Catalog) Definition(s Stage) (Definition, error) {
	d, ok := c.defs[s]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownStage, s)
	}
	return d, nil
}

// Next returns the cyclic successor of a stage in the linear order.
func (c *Catalog) Next(s Stage) (Stage, error) {
	if s == StageMenu {
		return "", fmt.Errorf("%w: menu has no successor", ErrInvalidTransition)
	}
	i, ok := c.ordinal[s]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStage, s)
	}
	return c.order[(i+1)%len(c.order)], nil
}

// prev returns the cyclic predecessor of a stage, used for lagged quiz grading.
func (c *Catalog) prev(s Stage) (Stage, bool) {
	i, ok := c.ordinal[s]
	if !ok {
		return "", false
	}
	return c.order[(i-1+len(c.order))%len(c.order)], true
}

// ResolveMenuLabel maps a menu keyboard label to its target stage. An unknown
// label is a normal user-input case, not an error.
func (c *Catalog) ResolveMenuLabel(label string) (Stage, bool) {
	s, ok := c.menuIdx[label]
	return s, ok
}

// MenuLabels returns the menu labels in their stable display order.
func (c *Catalog) MenuLabels() []string {
	return labels(c.menu)
}

// Len reports the number of stages in the linear order.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Validate checks catalog consistency. It is meant to run at startup so that
// configuration defects fail loudly before the bot serves traffic.
func (c *Catalog) Validate() error {
	if len(c.order) == 0 {
		return fmt.Errorf("flow: empty stage order")
	}
	seen := make(map[Stage]struct{}, len(c.order))
	for _, s := range c.order {
		if s == StageMenu {
			return fmt.Errorf("flow: menu must not appear in the linear order")
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("flow: stage %s repeats in the order", s)
		}
		seen[s] = struct{}{}
		if _, ok := c.defs[s]; !ok {
			return fmt.Errorf("%w: %s has no definition", ErrUnknownStage, s)
		}
	}
	for s := range c.defs {
		if _, ok := c.ordinal[s]; !ok {
			return fmt.Errorf("flow: definition %s is not part of the order", s)
		}
	}
	for _, e := range c.menu {
		if e.Target == StageMenu {
			return fmt.Errorf("flow: menu entry %q targets the menu state", e.Label)
		}
		if _, ok := c.defs[e.Target]; !ok {
			return fmt.Errorf("%w: menu entry %q targets %s", ErrUnknownStage, e.Label, e.Target)
		}
		// A jump target whose predecessor expects an answer would grade the
		// menu label itself as a stale quiz reply.
		if p, ok := c.prev(e.Target); ok && c.defs[p].Answer != "" {
			return fmt.Errorf("flow: menu entry %q targets %s right after quiz stage %s", e.Label, e.Target, p)
		}
	}
	return nil
}
