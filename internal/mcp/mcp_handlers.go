package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/scanreport/core"
	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/internal/outwriter"
	"github.com/huangsam/scanreport/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// unitDetail is the unit_summary payload.
type unitDetail struct {
	Summary schema.EnrichedUnitSummary `json:"summary"`
	Unit    schema.UnitReport          `json:"unit"`
}

// loadResult resolves the archive for a request and decodes it.
func (h *toolHandler) loadResult(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, schema.ScanResult, *mcp.CallToolResult) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateArchive(cfg, request.GetString("archive_path", "")); err != nil {
		return nil, schema.ScanResult{}, mcp.NewToolResultError(fmt.Sprintf("invalid archive: %v", err))
	}
	result, err := core.LoadReport(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if core.IsOpenError(err) {
		return nil, schema.ScanResult{}, mcp.NewToolResultError(fmt.Sprintf("cannot open archive: %v", err))
	}
	if err != nil {
		return nil, schema.ScanResult{}, mcp.NewToolResultError(fmt.Sprintf("report decoding failed: %v", err))
	}
	return cfg, result, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleReadReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, result, errResult := h.loadResult(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	if f := request.GetString("filter", ""); f != "" {
		cfg.PathFilter = f
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	cfg.IncludeTests = request.GetBool("tests", cfg.IncludeTests)

	return jsonResult(outwriter.BuildReportView(result, cfg))
}

func (h *toolHandler) handleRuleHistogram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, result, errResult := h.loadResult(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(outwriter.RuleCounts(result.Report.Rules))
}

func (h *toolHandler) handleUnitSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("key", "")
	if key == "" {
		return mcp.NewToolResultError("key is required"), nil
	}
	_, result, errResult := h.loadResult(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	u, ok := core.FindUnit(result.Report, key)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unit %q not found", key)), nil
	}
	enriched := schema.EnrichUnits([]schema.UnitSummary{schema.Summarize(u)})
	return jsonResult(unitDetail{Summary: enriched[0], Unit: u})
}

func (h *toolHandler) handleListRuns(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.HistoryStore
	if h.mgr != nil {
		store = h.mgr.GetHistoryStore()
	}
	if store == nil {
		return mcp.NewToolResultError("history store is not configured"), nil
	}
	runs, err := store.GetAllRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 && len(runs) > l {
		runs = runs[len(runs)-l:]
	}
	if runs == nil {
		runs = []schema.RunRecord{}
	}
	return jsonResult(runs)
}
