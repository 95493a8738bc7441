package logic

import "fmt"

/*

	RoundStage 回合阶段
*/

type RoundStage int32

const (
	StStart     RoundStage = iota // 开始,轮换庄位/盲注
	StGuessing                    // 答题
	StPreFlop                     // 第一轮下注
	StFlop                        // 下注,公开提示
	StTurnCard                    // 下注,公开提示
	StRiverCard                   // 下注,公开答案
	StResults                     // 结算
)

// StageNames maps each stage to its wire name.
var StageNames = map[RoundStage]string{
	StStart:     "START",
	StGuessing:  "GUESSING",
	StPreFlop:   "PRE_FLOP",
	StFlop:      "FLOP",
	StTurnCard:  "TURN_CARD",
	StRiverCard: "RIVER_CARD",
	StResults:   "RESULTS",
}

// stageNext maps each stage to its successor. RESULTS wraps around to START
// for the next question.
var stageNext = map[RoundStage]RoundStage{
	StStart:     StGuessing,
	StGuessing:  StPreFlop,
	StPreFlop:   StFlop,
	StFlop:      StTurnCard,
	StTurnCard:  StRiverCard,
	StRiverCard: StResults,
	StResults:   StStart,
}

// String returns the wire name of the stage.
func (s RoundStage) String() string {
	if name, ok := StageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RoundStage(%d)", s)
}

// Next returns the following stage.
func (s RoundStage) Next() RoundStage {
	return stageNext[s]
}

// AnswerVisible reports whether the question's answer is public in s.
func (s RoundStage) AnswerVisible() bool {
	return s == StRiverCard || s == StResults
}
