// Package engine runs executions and drives the lifecycle notification hooks.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexgaganashvili/orca/pkg/models"
)

// Task is a named unit of work inside a stage.
type Task func(ctx context.Context, execution *models.Execution, stage *models.Stage) error

// TaskNode pairs a task with its registered name.
type TaskNode struct {
	Name string
	Run  Task
}

// StageDefinition declares a stage type and its ordered task list.
type StageDefinition interface {
	Type() string
	Tasks() []TaskNode
}

// StageRegistry resolves stage types to their definitions.
type StageRegistry struct {
	logger      *slog.Logger
	definitions map[string]StageDefinition
}

func NewStageRegistry(logger *slog.Logger) *StageRegistry {
	return &StageRegistry{
		logger:      logger,
		definitions: make(map[string]StageDefinition),
	}
}

func (r *StageRegistry) Register(definition StageDefinition) {
	r.definitions[definition.Type()] = definition
}

func (r *StageRegistry) Get(stageType string) (StageDefinition, error) {
	definition, ok := r.definitions[stageType]
	if !ok {
		return nil, fmt.Errorf("stage type '%s' not registered", stageType)
	}

	return definition, nil
}
