// Package remote talks to an Overleaf-style document service: cookie and
// CSRF authenticated HTTP, project listing scraped from the dashboard
// page, zip snapshots, multipart uploads and entity deletion.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Project is one remote project as listed on the dashboard.
type Project struct {
	ID          string
	Name        string
	LastUpdated time.Time
}

// Entity is a doc or binary file inside a project folder.
type Entity struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Folder is a node of a project's entity tree. Entity IDs are needed to
// place uploads and to delete docs and files.
type Folder struct {
	ID      string    `json:"_id"`
	Name    string    `json:"name"`
	Folders []*Folder `json:"folders"`
	Docs    []Entity  `json:"docs"`
	Files   []Entity  `json:"fileRefs"`
}

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RemoteError wraps a failed client operation with context.
type RemoteError struct {
	Op   string
	Err  error
	Hint string
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("remote: %s: %s", e.Op, e.Err)
	if e.Hint != "" {
		msg += " — " + e.Hint
	}
	return msg
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Client talks to the remote service using a persisted session. A nil
// session is only valid for Login.
type Client struct {
	BaseURL string
	HTTP    HTTPClient
	Session *Session
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, session *Session) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Session: session,
	}
}

// Login authenticates with email and password and returns the session to
// persist. The service rotates the session cookie on success, so an
// unchanged cookie set means the credentials were rejected.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/login", nil)
	if err != nil {
		return nil, &RemoteError{Op: "login", Err: err}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: "login", Err: err, Hint: "check network connectivity and the server URL"}
	}
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &RemoteError{Op: "login", Err: fmt.Errorf("reading login page: %w", err)}
	}

	csrf := extractInputValue(string(page), "_csrf")
	if csrf == "" {
		return nil, &RemoteError{Op: "login", Err: fmt.Errorf("no CSRF token on login page"), Hint: "the server URL may not point at a compatible service"}
	}
	preCookies := resp.Cookies()

	payload, err := json.Marshal(map[string]string{
		"_csrf":    csrf,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, &RemoteError{Op: "login", Err: err}
	}

	post, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return nil, &RemoteError{Op: "login", Err: err}
	}
	post.Header.Set("Content-Type", "application/json")
	for _, ck := range preCookies {
		post.AddCookie(ck)
	}

	postResp, err := c.HTTP.Do(post)
	if err != nil {
		return nil, &RemoteError{Op: "login", Err: err}
	}
	defer postResp.Body.Close()
	_, _ = io.Copy(io.Discard, postResp.Body)

	if postResp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Op: "login", Err: fmt.Errorf("HTTP %d", postResp.StatusCode), Hint: "check email and password"}
	}

	pre := cookieMap(preCookies)
	cookies := cookieMap(preCookies)
	rotated := false
	for _, ck := range postResp.Cookies() {
		if pre[ck.Name] != ck.Value {
			rotated = true
		}
		cookies[ck.Name] = ck.Value
	}
	if !rotated {
		return nil, &RemoteError{Op: "login", Err: fmt.Errorf("session cookie did not change"), Hint: "check email and password"}
	}

	return &Session{Cookies: cookies, CSRF: csrf}, nil
}

// Projects lists the user's active projects. The dashboard embeds the
// project list as JSON inside a script element; archived entries are
// dropped.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	page, err := c.get(ctx, "/project")
	if err != nil {
		return nil, err
	}

	payload, err := extractScriptJSON(string(page), "data")
	if err != nil {
		return nil, &RemoteError{Op: "list projects", Err: err, Hint: "session may have expired — run 'texsync login' again"}
	}

	var data struct {
		Projects []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			LastUpdated string `json:"lastUpdated"`
			Archived    bool   `json:"archived"`
		} `json:"projects"`
	}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, &RemoteError{Op: "list projects", Err: fmt.Errorf("parsing project list: %w", err)}
	}

	var projects []Project
	for _, p := range data.Projects {
		if p.Archived {
			continue
		}
		updated, err := time.Parse(time.RFC3339Nano, p.LastUpdated)
		if err != nil {
			return nil, &RemoteError{Op: "list projects", Err: fmt.Errorf("parsing lastUpdated of %s: %w", p.Name, err)}
		}
		projects = append(projects, Project{ID: p.ID, Name: p.Name, LastUpdated: updated})
	}
	return projects, nil
}

// ProjectByName finds an active project by its display name.
func (c *Client) ProjectByName(ctx context.Context, name string) (*Project, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Name == name {
			return &projects[i], nil
		}
	}
	return nil, &RemoteError{
		Op:   "find project",
		Err:  fmt.Errorf("no active project named %q", name),
		Hint: "run 'texsync projects' to list available projects",
	}
}

// DownloadZip fetches the whole project as a zip archive.
func (c *Client) DownloadZip(ctx context.Context, projectID string) ([]byte, error) {
	return c.get(ctx, "/project/"+projectID+"/download/zip")
}

// ProjectTree fetches the project's folder/doc/file entity tree.
func (c *Client) ProjectTree(ctx context.Context, projectID string) (*Folder, error) {
	body, err := c.get(ctx, "/project/"+projectID+"/folders")
	if err != nil {
		return nil, err
	}
	var root Folder
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, &RemoteError{Op: "fetch project tree", Err: fmt.Errorf("parsing entity tree: %w", err)}
	}
	return &root, nil
}

// Upload stores content as name in the project, creating missing parent
// folders along the way. root must be the project's current entity tree;
// folders created here are appended to it so later uploads see them.
func (c *Client) Upload(ctx context.Context, projectID string, root *Folder, name string, content []byte) error {
	folderID, err := c.ensureFolders(ctx, projectID, root, name)
	if err != nil {
		return err
	}

	base := name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		base = name[i+1:]
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("qqfile", base)
	if err != nil {
		return &RemoteError{Op: "upload " + name, Err: err}
	}
	if _, err := fw.Write(content); err != nil {
		return &RemoteError{Op: "upload " + name, Err: err}
	}
	if err := mw.Close(); err != nil {
		return &RemoteError{Op: "upload " + name, Err: err}
	}

	query := url.Values{}
	query.Set("folder_id", folderID)
	query.Set("_csrf", c.Session.CSRF)
	query.Set("qquuid", uuid.New().String())
	query.Set("qqfilename", base)
	query.Set("qqtotalfilesize", fmt.Sprint(len(content)))

	target := fmt.Sprintf("%s/project/%s/upload?%s", c.BaseURL, projectID, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return &RemoteError{Op: "upload " + name, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req, "upload "+name)
	if err != nil {
		return err
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &RemoteError{Op: "upload " + name, Err: fmt.Errorf("parsing upload response: %w", err)}
	}
	if !result.Success {
		return &RemoteError{Op: "upload " + name, Err: fmt.Errorf("service rejected the upload")}
	}
	return nil
}

// CreateFolder creates a folder under parentID and returns its ID.
func (c *Client) CreateFolder(ctx context.Context, projectID, parentID, name string) (string, error) {
	body, err := c.postJSON(ctx, "/project/"+projectID+"/folder", map[string]string{
		"parent_folder_id": parentID,
		"name":             name,
		"_csrf":            c.Session.CSRF,
	})
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", &RemoteError{Op: "create folder " + name, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return created.ID, nil
}

// Delete removes the doc or file stored at name from the project.
func (c *Client) Delete(ctx context.Context, projectID string, root *Folder, name string) error {
	kind, id, err := findEntity(root, name)
	if err != nil {
		return &RemoteError{Op: "delete " + name, Err: err}
	}

	target := fmt.Sprintf("%s/project/%s/%s/%s", c.BaseURL, projectID, kind, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return &RemoteError{Op: "delete " + name, Err: err}
	}

	_, err = c.do(req, "delete "+name)
	return err
}

// ensureFolders walks the entity tree along the directory components of
// name, creating folders that do not exist, and returns the ID of the
// folder the file belongs in. Folder name matching is case-insensitive,
// like the service itself.
func (c *Client) ensureFolders(ctx context.Context, projectID string, root *Folder, name string) (string, error) {
	parts := strings.Split(name, "/")
	folder := root

	for _, part := range parts[:len(parts)-1] {
		var next *Folder
		for _, f := range folder.Folders {
			if strings.EqualFold(f.Name, part) {
				next = f
				break
			}
		}
		if next == nil {
			id, err := c.CreateFolder(ctx, projectID, folder.ID, part)
			if err != nil {
				return "", err
			}
			next = &Folder{ID: id, Name: part}
			folder.Folders = append(folder.Folders, next)
		}
		folder = next
	}

	return folder.ID, nil
}

// findEntity resolves name to its entity kind ("doc" or "file") and ID.
func findEntity(root *Folder, name string) (kind, id string, err error) {
	parts := strings.Split(name, "/")
	folder := root

	for _, part := range parts[:len(parts)-1] {
		var next *Folder
		for _, f := range folder.Folders {
			if strings.EqualFold(f.Name, part) {
				next = f
				break
			}
		}
		if next == nil {
			return "", "", fmt.Errorf("folder %q not found in project", part)
		}
		folder = next
	}

	base := parts[len(parts)-1]
	for _, d := range folder.Docs {
		if d.Name == base {
			return "doc", d.ID, nil
		}
	}
	for _, f := range folder.Files {
		if f.Name == base {
			return "file", f.ID, nil
		}
	}
	return "", "", fmt.Errorf("%s not found in project", name)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, &RemoteError{Op: "GET " + path, Err: err}
	}
	return c.do(req, "GET "+path)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &RemoteError{Op: "POST " + path, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &RemoteError{Op: "POST " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "POST "+path)
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	c.attachSession(req)
	log.WithFields(log.Fields{"method": req.Method, "url": req.URL.String()}).Debug("remote request")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: err, Hint: "check network connectivity and the server URL"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		hint := ""
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			hint = "session may have expired — run 'texsync login' again"
		}
		return nil, &RemoteError{Op: op, Err: fmt.Errorf("HTTP %d", resp.StatusCode), Hint: hint}
	}
	return body, nil
}

func (c *Client) attachSession(req *http.Request) {
	if c.Session == nil {
		return
	}
	for name, value := range c.Session.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if c.Session.CSRF != "" {
		req.Header.Set("X-Csrf-Token", c.Session.CSRF)
	}
}

func cookieMap(cookies []*http.Cookie) map[string]string {
	m := make(map[string]string, len(cookies))
	for _, ck := range cookies {
		m[ck.Name] = ck.Value
	}
	return m
}

// extractInputValue pulls the value attribute of the named hidden input
// out of an HTML page. The login page is the only place this is needed,
// so a string scan beats pulling in an HTML parser.
func extractInputValue(page, inputName string) string {
	idx := strings.Index(page, `name="`+inputName+`"`)
	if idx < 0 {
		return ""
	}
	tag := page[idx:]
	if end := strings.Index(tag, ">"); end >= 0 {
		tag = tag[:end]
	}
	const marker = `value="`
	vi := strings.Index(tag, marker)
	if vi < 0 {
		return ""
	}
	tag = tag[vi+len(marker):]
	if q := strings.Index(tag, `"`); q >= 0 {
		return tag[:q]
	}
	return ""
}

// extractScriptJSON returns the body of <script id="..."> ... </script>.
func extractScriptJSON(page, scriptID string) (string, error) {
	idx := strings.Index(page, `id="`+scriptID+`"`)
	if idx < 0 {
		return "", fmt.Errorf("no script element with id %q on page", scriptID)
	}
	rest := page[idx:]
	start := strings.Index(rest, ">")
	if start < 0 {
		return "", fmt.Errorf("malformed script element %q", scriptID)
	}
	rest = rest[start+1:]
	end := strings.Index(rest, "</script>")
	if end < 0 {
		return "", fmt.Errorf("unterminated script element %q", scriptID)
	}
	return strings.TrimSpace(rest[:end]), nil
}
