package models

// StageDef declares a stage inside a pipeline definition. The stage type is
// resolved against the stage registry when the pipeline runs.
type StageDef struct {
	RefID   string         `json:"ref_id"  validate:"required"`
	Type    string         `json:"type"    validate:"required"`
	Name    string         `json:"name,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// CronTriggerDef declares a schedule on which the pipeline starts on its own.
type CronTriggerDef struct {
	Cron    string `json:"cron"    validate:"required"`
	Enabled bool   `json:"enabled"`
}

// PipelineDef is a declared, named pipeline belonging to an application.
type PipelineDef struct {
	ID            string           `json:"id,omitempty"`
	Name          string           `json:"name"        validate:"required,min=3"`
	Application   string           `json:"application" validate:"required"`
	Stages        []StageDef       `json:"stages"      validate:"dive"`
	Notifications []*Notification  `json:"notifications,omitempty"`
	Triggers      []CronTriggerDef `json:"triggers,omitempty"      validate:"dive"`
}
