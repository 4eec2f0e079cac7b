package export

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/voxline/scriptflow/pkg/models"
)

var htmlPage = template.Must(template.New("visualization").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}} - Script Flow Visualization</title>
    <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 1200px; margin: 0 auto; padding: 20px; }
        h1, h2 { color: #2c3e50; }
        .mermaid { margin: 20px 0; overflow: auto; }
        .script-info { background: #f8f9fa; border-left: 5px solid #4caf50; padding: 15px; margin-bottom: 20px; }
        table { border-collapse: collapse; width: 100%; margin: 15px 0; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background: #f2f2f2; }
    </style>
</head>
<body>
    <h1>{{.Name}}</h1>
    <div class="script-info">
        <p><strong>Version:</strong> {{.Version}}</p>
        {{if .Description}}<p><strong>Description:</strong> {{.Description}}</p>{{end}}
        <p><strong>Starting state:</strong> {{.StartingState}}</p>
    </div>

    <h2>Flow</h2>
    <div class="mermaid">
{{.Mermaid}}
    </div>

    <h2>States</h2>
    <table>
        <tr><th>Name</th><th>Type</th><th>Tools</th></tr>
        {{range .States}}<tr><td>{{.Name}}</td><td>{{.Type}}</td><td>{{.Tools}}</td></tr>
        {{end}}
    </table>

    <h2>Transitions</h2>
    <table>
        <tr><th>From</th><th>To</th><th>Condition</th></tr>
        {{range .Edges}}<tr><td>{{.From}}</td><td>{{.To}}</td><td>{{.Condition}}</td></tr>
        {{end}}
    </table>

    <script>mermaid.initialize({ startOnLoad: true });</script>
</body>
</html>
`))

type htmlState struct {
	Name  string
	Type  models.StateType
	Tools string
}

type htmlEdge struct {
	From      string
	To        string
	Condition string
}

type htmlData struct {
	Name          string
	Version       string
	Description   string
	StartingState string
	Mermaid       template.HTML
	States        []htmlState
	Edges         []htmlEdge
}

// HTML renders a self-contained visualization page: the Mermaid flowchart
// plus state and transition tables.
func HTML(script *models.Script) (string, error) {
	data := htmlData{
		Name:          script.Name,
		Version:       script.Version,
		Description:   script.Description,
		StartingState: script.ResolveStartingState(),
		Mermaid:       template.HTML(template.HTMLEscapeString(Mermaid(script))), //nolint:gosec // escaped above
	}

	for i := range script.States {
		state := &script.States[i]
		data.States = append(data.States, htmlState{
			Name:  state.Name,
			Type:  state.Type,
			Tools: strings.Join(state.Tools, ", "),
		})
	}

	for i := range script.Edges {
		edge := &script.Edges[i]
		data.Edges = append(data.Edges, htmlEdge{
			From:      edge.FromState,
			To:        edge.ToState,
			Condition: edgeLabel(edge),
		})
	}

	var builder strings.Builder
	if err := htmlPage.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("failed to render visualization page: %w", err)
	}

	return builder.String(), nil
}
