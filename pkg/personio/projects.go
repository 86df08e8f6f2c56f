package personio

import (
	"context"
	"net/http"
	"strconv"
)

const projectsPath = "company/attendances/projects"

func (c *Client) GetProjects(ctx context.Context) ([]*Project, error) {
	data, err := c.data(ctx, Request{Path: projectsPath})
	if err != nil {
		return nil, err
	}
	var out []*Project
	if err := c.dec.decode(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func projectBody(p *Project) (map[string]any, error) {
	if p.Name == "" {
		return nil, errorf("a project needs a name")
	}
	return map[string]any{"name": p.Name, "active": p.Active}, nil
}

// CreateProject creates p and returns the stored project.
func (c *Client) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	body, err := projectBody(p)
	if err != nil {
		return nil, err
	}
	return c.writeProject(ctx, Request{Method: http.MethodPost, Path: projectsPath, Body: body})
}

func (c *Client) UpdateProject(ctx context.Context, p *Project) (*Project, error) {
	if p.ID == 0 {
		return nil, errorf("a project id is required for updates")
	}
	body, err := projectBody(p)
	if err != nil {
		return nil, err
	}
	return c.writeProject(ctx, Request{Method: http.MethodPatch, Path: projectPath(p.ID), Body: body})
}

func (c *Client) writeProject(ctx context.Context, req Request) (*Project, error) {
	data, err := c.data(ctx, req)
	if err != nil {
		return nil, err
	}
	var out Project
	if err := c.dec.decode(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject removes a project. The API answers with an empty 204.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.DoJSON(ctx, Request{Method: http.MethodDelete, Path: projectPath(id), SkipRotation: true}, nil)
}

func projectPath(id int) string {
	return projectsPath + "/" + strconv.Itoa(id)
}
