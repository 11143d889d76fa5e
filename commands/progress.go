package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alDuncanson/thoughtmap/pipeline"

	tea "github.com/charmbracelet/bubbletea"
)

const barWidth = 30

// stageMsg reports the progress of one pipeline stage.
type stageMsg struct {
	stage       pipeline.Stage
	done, total int
}

// finishedMsg carries the outcome of the run.
type finishedMsg struct {
	result *pipeline.Result
	err    error
}

// progressModel draws one bar per pipeline stage while a run is going.
type progressModel struct {
	stages      []pipeline.Stage
	progress    map[pipeline.Stage]stageMsg
	cancel      context.CancelFunc
	result      *pipeline.Result
	err         error
	finished    bool
	interrupted bool
}

func newProgressModel(method string, cancel context.CancelFunc) progressModel {
	stages := []pipeline.Stage{pipeline.StageNeighbors, pipeline.StageLayout, pipeline.StageClustering, pipeline.StageLabels}
	if method == pipeline.MethodPCA {
		stages = stages[1:]
	}
	return progressModel{
		stages:   stages,
		progress: make(map[pipeline.Stage]stageMsg, len(stages)),
		cancel:   cancel,
	}
}

func (model progressModel) Init() tea.Cmd {
	return nil
}

func (model progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch message := msg.(type) {
	case tea.KeyMsg:
		if message.String() == "ctrl+c" {
			model.interrupted = true
			model.cancel()
			return model, tea.Quit
		}

	case stageMsg:
		model.progress[message.stage] = message

	case finishedMsg:
		model.finished = true
		model.result = message.result
		model.err = message.err
		return model, tea.Quit
	}

	return model, nil
}

func (model progressModel) View() string {
	s := newStyles()

	var b strings.Builder
	for _, stage := range model.stages {
		b.WriteString(s.label.Render(fmt.Sprintf("%-10s", stage)))
		b.WriteString(" ")

		update, started := model.progress[stage]
		if !started || update.total <= 0 {
			b.WriteString(s.barEmpty.Render(strings.Repeat("░", barWidth)))
			b.WriteString(s.dim.Render("  waiting"))
			b.WriteString("\n")
			continue
		}

		filled := barWidth * update.done / update.total
		filled = max(0, min(filled, barWidth))
		b.WriteString(s.barFilled.Render(strings.Repeat("█", filled)))
		b.WriteString(s.barEmpty.Render(strings.Repeat("░", barWidth-filled)))
		b.WriteString(fmt.Sprintf("  %d/%d", update.done, update.total))
		b.WriteString("\n")
	}

	if model.err != nil {
		b.WriteString(s.errorText.Render(model.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// runPipeline executes the pipeline, drawing stage progress on stderr when
// showProgress is set. Ctrl+C during the display cancels the run.
func runPipeline(ctx context.Context, in pipeline.Input, config pipeline.Config, showProgress bool) (*pipeline.Result, error) {
	if !showProgress {
		return pipeline.Run(ctx, in, config)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newProgressModel(config.Method, cancel), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	config.Progress = func(stage pipeline.Stage, done, total int) {
		program.Send(stageMsg{stage: stage, done: done, total: total})
	}

	go func() {
		result, err := pipeline.Run(ctx, in, config)
		program.Send(finishedMsg{result: result, err: err})
	}()

	final, err := program.Run()
	finalModel, _ := final.(progressModel)
	switch {
	case finalModel.interrupted:
		return nil, context.Canceled
	case err != nil && !finalModel.finished:
		return nil, fmt.Errorf("run progress display: %w", err)
	case !finalModel.finished:
		return nil, context.Canceled
	}
	return finalModel.result, finalModel.err
}
