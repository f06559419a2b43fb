package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"planviz/internal/action"
	"planviz/internal/edit"
	"planviz/internal/layout"
	"planviz/internal/report"
	"planviz/internal/store"
	"planviz/internal/timeline"
	"planviz/internal/world"
)

var errNoStore = errors.New("no model store configured")

type RenderTimelineInput struct {
	Log string `json:"log" jsonschema:"action log, legacy tuples or JSON"`
}

type RenderTimelineOutput struct {
	Rows   []action.Record `json:"rows"`
	Labels []string        `json:"labels"`
	Legend []string        `json:"legend"`
	Issues []report.Issue  `json:"issues"`
}

type LayoutSceneInput struct {
	Model  string  `json:"model,omitempty" jsonschema:"world snapshot JSON"`
	Name   string  `json:"name,omitempty" jsonschema:"name of a stored model, used when model is empty"`
	Width  float64 `json:"width,omitempty" jsonschema:"surface width, defaults to the configured surface"`
	Height float64 `json:"height,omitempty" jsonschema:"surface height, defaults to the configured surface"`
}

type LayoutSceneOutput struct {
	Scene  *layout.Scene  `json:"scene"`
	Issues []report.Issue `json:"issues"`
}

type ListObjectsInput struct {
	Model string `json:"model,omitempty" jsonschema:"world snapshot JSON"`
	Name  string `json:"name,omitempty" jsonschema:"name of a stored model, used when model is empty"`
}

type ListObjectsOutput struct {
	Objects []world.ObjectView `json:"objects"`
	Issues  []report.Issue     `json:"issues"`
}

type ObjectFieldsInput struct {
	Model string `json:"model,omitempty" jsonschema:"world snapshot JSON"`
	Name  string `json:"name,omitempty" jsonschema:"name of a stored model, used when model is empty"`
	ID    string `json:"id" jsonschema:"object id, e.g. civ1 or \"b0-0 h1-0\""`
}

type ObjectFieldsOutput struct {
	Fields []edit.Field `json:"fields"`
}

type ApplyEditInput struct {
	Model string      `json:"model,omitempty" jsonschema:"world snapshot JSON"`
	Name  string      `json:"name,omitempty" jsonschema:"name of a stored model, used when model is empty"`
	ID    string      `json:"id" jsonschema:"object id to edit"`
	Edits []edit.Edit `json:"edits" jsonschema:"field/value pairs"`
	Save  bool        `json:"save,omitempty" jsonschema:"store the edited model back under name"`
}

type ApplyEditOutput struct {
	Model string        `json:"model"`
	Saved *ModelSummary `json:"saved,omitempty"`
}

type SaveModelInput struct {
	Name  string `json:"name" jsonschema:"model name"`
	Model string `json:"model" jsonschema:"world snapshot JSON"`
}

type GetModelInput struct {
	Name string `json:"name" jsonschema:"model name"`
}

type GetModelOutput struct {
	Summary ModelSummary `json:"summary"`
	Model   string       `json:"model"`
}

type ListModelsInput struct{}

type ListModelsOutput struct {
	Models []ModelSummary `json:"models"`
}

type ModelSummary struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	SourceFile string      `json:"source_file,omitempty"`
	Stats      store.Stats `json:"stats"`
	UpdatedAt  string      `json:"updated_at,omitempty"`
}

func summaryOf(id, name, sourceFile string, stats store.Stats, updatedAt time.Time) ModelSummary {
	summary := ModelSummary{ID: id, Name: name, SourceFile: sourceFile, Stats: stats}
	if !updatedAt.IsZero() {
		summary.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	}
	return summary
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "render_timeline",
		Description: "Parse an action log into sorted timeline rows and a color legend",
	}, s.handleRenderTimeline)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "layout_scene",
		Description: "Place the nodes, edges, and agents of a world snapshot on a surface",
	}, s.handleLayoutScene)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_objects",
		Description: "List the objects of a world snapshot with resolved attributes",
	}, s.handleListObjects)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "object_fields",
		Description: "Describe the editable form fields of one object",
	}, s.handleObjectFields)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "apply_edit",
		Description: "Edit one object; edges are edited in both directions",
	}, s.handleApplyEdit)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "save_model",
		Description: "Store a world snapshot under a name",
	}, s.handleSaveModel)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_model",
		Description: "Fetch a stored world snapshot",
	}, s.handleGetModel)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_models",
		Description: "List stored world snapshots",
	}, s.handleListModels)
}

func (s *Server) handleRenderTimeline(ctx context.Context, req *sdk.CallToolRequest, input RenderTimelineInput) (*sdk.CallToolResult, RenderTimelineOutput, error) {
	tl, err := timeline.Build([]byte(input.Log))
	if err != nil {
		return nil, RenderTimelineOutput{}, err
	}
	return nil, RenderTimelineOutput{
		Rows:   tl.Rows,
		Labels: tl.Labels,
		Legend: tl.Legend,
		Issues: report.FromErrors(report.SourceLog, tl.Failures),
	}, nil
}

func (s *Server) handleLayoutScene(ctx context.Context, req *sdk.CallToolRequest, input LayoutSceneInput) (*sdk.CallToolResult, LayoutSceneOutput, error) {
	m, err := s.loadModel(ctx, input.Model, input.Name)
	if err != nil {
		return nil, LayoutSceneOutput{}, err
	}
	surface := s.cfg.Layout.Surface
	if input.Width > 0 {
		surface.Width = input.Width
	}
	if input.Height > 0 {
		surface.Height = input.Height
	}

	w := world.Parse(m)
	scene := layout.Layout(w, surface, s.cfg.Layout.Style)
	issues := report.FromErrors(report.SourceModel, w.Errors)
	issues = append(issues, report.FromErrors(report.SourceModel, scene.Errors)...)
	return nil, LayoutSceneOutput{Scene: scene, Issues: issues}, nil
}

func (s *Server) handleListObjects(ctx context.Context, req *sdk.CallToolRequest, input ListObjectsInput) (*sdk.CallToolResult, ListObjectsOutput, error) {
	m, err := s.loadModel(ctx, input.Model, input.Name)
	if err != nil {
		return nil, ListObjectsOutput{}, err
	}
	objects := world.Objects(m)
	if objects == nil {
		objects = []world.ObjectView{}
	}
	return nil, ListObjectsOutput{
		Objects: objects,
		Issues:  report.FromErrors(report.SourceModel, m.Invalid),
	}, nil
}

func (s *Server) handleObjectFields(ctx context.Context, req *sdk.CallToolRequest, input ObjectFieldsInput) (*sdk.CallToolResult, ObjectFieldsOutput, error) {
	if input.ID == "" {
		return nil, ObjectFieldsOutput{}, fmt.Errorf("id is required")
	}
	m, err := s.loadModel(ctx, input.Model, input.Name)
	if err != nil {
		return nil, ObjectFieldsOutput{}, err
	}
	fields, err := edit.Fields(m, input.ID)
	if err != nil {
		return nil, ObjectFieldsOutput{}, err
	}
	return nil, ObjectFieldsOutput{Fields: fields}, nil
}

func (s *Server) handleApplyEdit(ctx context.Context, req *sdk.CallToolRequest, input ApplyEditInput) (*sdk.CallToolResult, ApplyEditOutput, error) {
	if input.ID == "" {
		return nil, ApplyEditOutput{}, fmt.Errorf("id is required")
	}
	if input.Save && input.Name == "" {
		return nil, ApplyEditOutput{}, fmt.Errorf("name is required to save")
	}
	m, err := s.loadModel(ctx, input.Model, input.Name)
	if err != nil {
		return nil, ApplyEditOutput{}, err
	}
	if err := edit.Apply(m, input.ID, input.Edits); err != nil {
		return nil, ApplyEditOutput{}, err
	}
	data, err := world.Encode(m)
	if err != nil {
		return nil, ApplyEditOutput{}, err
	}

	output := ApplyEditOutput{Model: string(data)}
	if input.Save {
		saved, err := s.saveModel(ctx, input.Name, data)
		if err != nil {
			return nil, ApplyEditOutput{}, err
		}
		output.Saved = &saved
	}
	return nil, output, nil
}

func (s *Server) handleSaveModel(ctx context.Context, req *sdk.CallToolRequest, input SaveModelInput) (*sdk.CallToolResult, ModelSummary, error) {
	if input.Name == "" {
		return nil, ModelSummary{}, fmt.Errorf("name is required")
	}
	saved, err := s.saveModel(ctx, input.Name, []byte(input.Model))
	if err != nil {
		return nil, ModelSummary{}, err
	}
	return nil, saved, nil
}

func (s *Server) handleGetModel(ctx context.Context, req *sdk.CallToolRequest, input GetModelInput) (*sdk.CallToolResult, GetModelOutput, error) {
	if input.Name == "" {
		return nil, GetModelOutput{}, fmt.Errorf("name is required")
	}
	if s.db == nil {
		return nil, GetModelOutput{}, errNoStore
	}
	m, err := s.db.GetModel(ctx, input.Name)
	if err != nil {
		return nil, GetModelOutput{}, err
	}
	return nil, GetModelOutput{
		Summary: summaryOf(m.ID, m.Name, m.SourceFile, m.Stats, m.UpdatedAt),
		Model:   string(m.Body),
	}, nil
}

func (s *Server) handleListModels(ctx context.Context, req *sdk.CallToolRequest, input ListModelsInput) (*sdk.CallToolResult, ListModelsOutput, error) {
	if s.db == nil {
		return nil, ListModelsOutput{}, errNoStore
	}
	models, err := s.db.ListModels(ctx)
	if err != nil {
		return nil, ListModelsOutput{}, err
	}
	output := ListModelsOutput{Models: make([]ModelSummary, 0, len(models))}
	for _, m := range models {
		output.Models = append(output.Models, summaryOf(m.ID, m.Name, m.SourceFile, m.Stats, m.UpdatedAt))
	}
	return nil, output, nil
}

// loadModel decodes the inline snapshot, or the stored model name when model is empty.
func (s *Server) loadModel(ctx context.Context, model, name string) (*world.Model, error) {
	raw := []byte(model)
	if model == "" {
		if name == "" {
			return nil, fmt.Errorf("model or name is required")
		}
		if s.db == nil {
			return nil, errNoStore
		}
		stored, err := s.db.GetModel(ctx, name)
		if err != nil {
			return nil, err
		}
		raw = stored.Body
	}
	return world.Decode(raw)
}

func (s *Server) saveModel(ctx context.Context, name string, raw []byte) (ModelSummary, error) {
	if s.db == nil {
		return ModelSummary{}, errNoStore
	}
	m, err := world.Decode(raw)
	if err != nil {
		return ModelSummary{}, err
	}
	saved, err := s.db.PutModel(ctx, store.ModelInput{Name: name, Body: raw, Stats: store.StatsOf(world.Parse(m))})
	if err != nil {
		return ModelSummary{}, err
	}
	return summaryOf(saved.ID, saved.Name, saved.SourceFile, saved.Stats, saved.UpdatedAt), nil
}
