package server

import (
	"github.com/lexandro/quickfind/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients during initialization.
const Version = "0.3.0"

// Handlers groups the tool handlers served over MCP.
type Handlers struct {
	Search  *tools.SearchHandler
	Glob    *tools.GlobHandler
	History *tools.HistoryHandler
	Status  *tools.StatusHandler
	Reindex *tools.ReindexHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(h Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "quickfind",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server answers file-location questions from a pre-built SQLite index of the user's document and project folders. Its tools are faster than find or recursive Glob over the home directory because nothing is scanned at call time.

Prefer these tools when looking for a file by name somewhere on the machine:
- Use quickfind_search for word or extension lookups ("tax 2024", ".pdf")
- Use quickfind_glob for structural patterns ("**/invoices/*.pdf")
- Use quickfind_history to see what the user searched for recently
- The index is only as fresh as the last indexing run; call quickfind_reindex when a file is known to be missing`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "quickfind_search",
		Description: `Search indexed file paths.

Query formats:
  - Words: every whitespace-separated word must appear somewhere in the path, case-insensitively and in any order (e.g. "budget 2024 xlsx")
  - .ext: a term starting with a dot matches paths ending with it (e.g. ".mp3")`,
	}, h.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "quickfind_glob",
		Description: `Find indexed files by glob pattern over absolute paths.

Pattern examples:
  - "**/*.pdf" - all PDF files
  - "**/Projects/*/README.md" - READMEs one level below any Projects folder
  - "/home/me/Music/**/*.{mp3,flac}" - audio files under one folder`,
	}, h.Glob.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "quickfind_history",
		Description: "List the user's recent search terms, most recent first.",
	}, h.History.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "quickfind_status",
		Description: "Show index status: file count, file types, configured roots, last indexing time and uptime.",
	}, h.Status.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "quickfind_reindex",
		Description: "Crawl every configured root again and add new files to the index. Existing entries are kept.",
	}, h.Reindex.Handle)

	return mcpServer
}
