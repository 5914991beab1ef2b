package remote

import "context"

// ProjectHandle binds a client to one project and caches the project's
// entity tree across operations. Uploads that create folders append them
// to the cached tree, so a single handle stays consistent through a whole
// sync run without refetching.
type ProjectHandle struct {
	Client  *Client
	Project *Project

	tree *Folder
}

// NewProjectHandle returns a handle for project.
func NewProjectHandle(client *Client, project *Project) *ProjectHandle {
	return &ProjectHandle{Client: client, Project: project}
}

func (h *ProjectHandle) loadTree(ctx context.Context) (*Folder, error) {
	if h.tree != nil {
		return h.tree, nil
	}
	tree, err := h.Client.ProjectTree(ctx, h.Project.ID)
	if err != nil {
		return nil, err
	}
	h.tree = tree
	return tree, nil
}

// Upload stores content as name in the project.
func (h *ProjectHandle) Upload(ctx context.Context, name string, content []byte) error {
	tree, err := h.loadTree(ctx)
	if err != nil {
		return err
	}
	return h.Client.Upload(ctx, h.Project.ID, tree, name, content)
}

// Delete removes name from the project.
func (h *ProjectHandle) Delete(ctx context.Context, name string) error {
	tree, err := h.loadTree(ctx)
	if err != nil {
		return err
	}
	return h.Client.Delete(ctx, h.Project.ID, tree, name)
}
