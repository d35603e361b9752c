package flow

// Stage identifies one step of the guided script.
type Stage string

const (
	StageStart      Stage = "start"
	StageAfterStart Stage = "after_start"
	StageChooseName Stage = "choose_name"
	StageAfterName  Stage = "after_name"
	StageCommon     Stage = "common"
	StageRed        Stage = "red"
	StageYellow     Stage = "yellow"
	StageBlack      Stage = "black"
	StageGray       Stage = "gray"
	StageHowToFire  Stage = "how_to_fire"
	StageFirstDay   Stage = "first_day"
	StageVoting     Stage = "voting"
	StageFire       Stage = "fire"
	StageNight      Stage = "night"
	StageFaults     Stage = "faults"
	StageWho        Stage = "who"
	StageDict       Stage = "dict"
	StageTestQ1     Stage = "test_q1"
	StageTestQ2     Stage = "test_q2"
	StageTestQ3     Stage = "test_q3"
	StageTestEnd    Stage = "test_end"
	StageMCStart    Stage = "mc_start"
	StageMC1        Stage = "mc1"
	StageMC2        Stage = "mc2"
	StageMC3        Stage = "mc3"
	StageWhere      Stage = "where"
	StageEnd        Stage = "end"

	// StageMenu is the absorbing state entered after the terminal stage.
	// It is not part of the linear order.
	StageMenu Stage = "menu"
)

// MediaKind distinguishes asset types attached to a step.
type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaPhoto
	MediaVideo
)

// Step is a single outbound message rendered for a stage. A step is either
// plain text (Media == MediaNone) or a media message whose caption is loaded
// with TextSuffix; an empty TextSuffix on a media step means no caption.
type Step struct {
	TextSuffix     string
	Media          MediaKind
	MediaFile      string
	Keyboard       []string
	RemoveKeyboard bool
}

// Definition describes how a stage renders and whether the answer given while
// leaving it is graded by the following stage.
type Definition struct {
	Stage    Stage
	Steps    []Step
	Answer   string
	Terminal bool
}
