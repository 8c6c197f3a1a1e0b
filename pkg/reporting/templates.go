/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for jsonlens reports.
*/

package reporting

// reportTemplate is the page layout. ChartConfig is emitted in a script context, where
// html/template encodes it as JSON.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }

        .card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 25px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .header { text-align: center; }
        .header h1 { color: #4a5568; font-size: 2.2rem; margin-bottom: 10px; }
        .header p { color: #718096; }

        h2 { color: #4a5568; font-size: 1.3rem; margin-bottom: 15px; }

        pre.schema {
            background: #f7fafc;
            border-radius: 10px;
            padding: 15px;
            font-family: 'Fira Code', Consolas, monospace;
            overflow-x: auto;
        }

        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #e2e8f0; }
        th { color: #718096; text-transform: uppercase; font-size: 0.8rem; letter-spacing: 0.5px; }
        td.value { font-family: Consolas, monospace; word-break: break-all; }

        .status { padding: 3px 10px; border-radius: 20px; font-size: 0.8rem; font-weight: 600; }
        .status.added { background: #c6f6d5; color: #38a169; }
        .status.removed { background: #fed7d7; color: #c53030; }
        .status.changed { background: #feebc8; color: #dd6b20; }
        .status.unchanged { background: #edf2f7; color: #4a5568; }

        .stats { display: flex; gap: 20px; margin-bottom: 15px; color: #4a5568; }
        .chart-wrapper { position: relative; height: 320px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="card header">
            <h1>{{.Title}}</h1>
            <p>{{if .Source}}Source: <span id="source">{{.Source}}</span> | {{end}}Generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM"}}</p>
        </div>

        {{if .SchemaTree}}
        <div class="card" id="schema">
            <h2>Schema</h2>
            <pre class="schema">{{.SchemaTree}}</pre>
        </div>
        {{end}}

        {{if .Fields}}
        <div class="card" id="fields">
            <h2>Fields</h2>
            <table>
                <thead><tr><th>Path</th><th>Kind</th><th>Optional</th></tr></thead>
                <tbody>
                {{range .Fields}}
                <tr class="field"><td class="path">{{.Path}}</td><td class="kind">{{.Kind}}</td><td>{{if .Optional}}yes{{else}}no{{end}}</td></tr>
                {{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        {{if .HasDiff}}
        <div class="card" id="diff">
            <h2>Changes <span class="status {{.DiffStatus}}">{{.DiffStatus}}</span></h2>
            <div class="stats">
                <span>Added: <strong class="added-count">{{.DiffStats.Added}}</strong></span>
                <span>Removed: <strong class="removed-count">{{.DiffStats.Removed}}</strong></span>
                <span>Changed: <strong class="changed-count">{{.DiffStats.Changed}}</strong></span>
                <span>Unchanged: <strong class="unchanged-count">{{.DiffStats.Unchanged}}</strong></span>
            </div>
            {{if .Changes}}
            <table>
                <thead><tr><th>Path</th><th>Status</th><th>Old</th><th>New</th></tr></thead>
                <tbody>
                {{range .Changes}}
                <tr class="change {{.Status}}"><td class="path">{{.Path}}</td><td><span class="status {{.Status}}">{{.Status}}</span></td><td class="value old">{{.Old}}</td><td class="value new">{{.New}}</td></tr>
                {{end}}
                </tbody>
            </table>
            {{else}}
            <p>No changes.</p>
            {{end}}
        </div>
        {{end}}

        {{if .HasChart}}
        <div class="card" id="chart">
            <h2>{{.ChartTitle}}</h2>
            <div class="chart-wrapper"><canvas id="pointChart"></canvas></div>
        </div>
        <script>
            const chartConfig = {{.ChartConfig}};
            new Chart(document.getElementById('pointChart'), chartConfig);
        </script>
        {{end}}
    </div>
</body>
</html>
`
