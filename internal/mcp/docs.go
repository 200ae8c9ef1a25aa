package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `ionview browses ion-channel protein design variants: one row per (Channel, design, n) with MPNN, pLDDT, i_pTM, i_PAE and RMSD scores and the designed peptide sequence.

Workflow:
1) get_view to see the table. Rows start in dataset order.
2) search_variants narrows rows to channels starting with the query (case-insensitive). An empty query restores all rows.
3) sort_variants orders by a column; numbers compare numerically. Calling it again on the same column flips direction.
4) request_download resolves the .pdb structure for a row (artifact design<d>_n<n>.pdb, label <Channel>_design<d>_n<n>).
5) classify_score explains a tier; reload_dataset refetches the data.

Sort and search are kept per session. Over HTTP the session is the Mcp-Session-Id (or Viewer-Session-Id) header; over stdio pass _meta.session_id or use the default session.

Docs:
- ionview://docs/scoring (thresholds and tiers)
- ionview://docs/dataset (columns and fallback data)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "ionview://docs/scoring",
		Name:        "docs_scoring",
		Title:       "Score tiers",
		Description: "Per-column thresholds used to classify scores.",
		Content: `# Score tiers

Each score column is classified as good, medium or poor. Values that are not numbers are unscored.

| Column | Good | Medium | Direction |
|---|---|---|---|
| mpnn | >= 1.5 | >= 1.3 | higher is better |
| plddt | >= 0.7 | >= 0.5 | higher is better |
| i_ptm | >= 0.5 | >= 0.3 | higher is better |
| i_pae | >= 0.3 | >= 0.2 | higher is better |
| rmsd | <= 20 | <= 30 | lower is better |

The good check runs first, so out-of-order thresholds resolve toward good.
Deployments may override thresholds in configuration; classify_score always uses the active values.
`,
	},
	{
		URI:         "ionview://docs/dataset",
		Name:        "docs_dataset",
		Title:       "Dataset",
		Description: "Columns, derived fields and the embedded fallback copy.",
		Content: `# Dataset

The dataset is CSV with header Channel,design,n,mpnn,plddt,i_ptm,i_pae,rmsd,seq.

- Rows with an empty Channel are dropped; short rows are padded with empty values.
- extracted_seq is the text after the last "/" in seq (the designed peptide), or empty.
- If the primary source cannot be read, or yields no rows, a built-in 16-row copy is used and views carry a notice.
- Structure files are named design<d>_n<n>.pdb and served from all_pdb/.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
