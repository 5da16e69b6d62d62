package tools

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"notionbridge/pkg/api"
	"notionbridge/pkg/backend"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//----------------------------------------------------------------
// get_user_info
//----------------------------------------------------------------

// GetUserInfoTool fetches the caller's profile from the backend API so the
// model can personalize replies and check Notion authorization state.
type GetUserInfoTool struct {
	backend *backend.Client
}

func NewGetUserInfoTool(client *backend.Client) *GetUserInfoTool {
	return &GetUserInfoTool{backend: client}
}

func (t *GetUserInfoTool) Name() string {
	return "get_user_info"
}

func (t *GetUserInfoTool) Description() string {
	return "백엔드에서 사용자 정보를 가져옵니다. 사용자별 노션 작업 전에 호출하세요."
}

func (t *GetUserInfoTool) Parameters() map[string]any {
	return map[string]any{
		"user_id": map[string]any{
			"type":        "string",
			"description": "조회할 사용자 ID",
		},
	}
}

func (t *GetUserInfoTool) RequiredParameters() []string {
	return []string{"user_id"}
}

func (t *GetUserInfoTool) Execute(ctx context.Context, args map[string]any, user api.UserContext) (*api.ToolResult, error) {
	userID, _ := args["user_id"].(string)

	profile, err := t.backend.GetUser(ctx, userID)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Failed to get user info: %v", err)), nil
	}

	payload, err := json.Marshal(profile)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Failed to encode user info: %v", err)), nil
	}
	return api.TextResult(string(payload)), nil
}

//----------------------------------------------------------------
// save_notion_data_to_backend
//----------------------------------------------------------------

// SaveNotionDataTool stores a fetched Notion page record into the backend.
// Each call upserts the latest record for the given page id.
type SaveNotionDataTool struct {
	backend *backend.Client
}

func NewSaveNotionDataTool(client *backend.Client) *SaveNotionDataTool {
	return &SaveNotionDataTool{backend: client}
}

func (t *SaveNotionDataTool) Name() string {
	return "save_notion_data_to_backend"
}

func (t *SaveNotionDataTool) Description() string {
	return "노션 페이지 데이터를 백엔드에 저장합니다. 같은 notion_page_id로 다시 호출하면 최신 내용으로 덮어씁니다."
}

func (t *SaveNotionDataTool) Parameters() map[string]any {
	return map[string]any{
		"user_id": map[string]any{
			"type":        "string",
			"description": "저장 대상 사용자 ID",
		},
		"content": map[string]any{
			"type":        "string",
			"description": "페이지 본문 텍스트",
		},
		"notion_url": map[string]any{
			"type":        "string",
			"description": "노션 페이지 URL",
		},
		"notion_page_id": map[string]any{
			"type":        "string",
			"description": "노션 페이지 ID",
		},
		"summary": map[string]any{
			"type":        "string",
			"description": "페이지 내용 요약",
		},
	}
}

func (t *SaveNotionDataTool) RequiredParameters() []string {
	return []string{"user_id", "content", "notion_page_id"}
}

func (t *SaveNotionDataTool) Execute(ctx context.Context, args map[string]any, user api.UserContext) (*api.ToolResult, error) {
	rec := backend.NotionRecord{
		UserID:       stringArg(args, "user_id"),
		Content:      stringArg(args, "content"),
		NotionURL:    stringArg(args, "notion_url"),
		NotionPageID: stringArg(args, "notion_page_id"),
		Summary:      stringArg(args, "summary"),
	}

	resp, err := t.backend.SaveNotionRecord(ctx, rec.UserID, rec)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Failed to save notion data: %v", err)), nil
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		payload = []byte(`{"saved":true}`)
	}
	return &api.ToolResult{
		Content: []api.ContentBlock{{Type: "text", Text: string(payload)}},
		Details: map[string]any{"notion_page_id": rec.NotionPageID},
	}, nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
