package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/resolver"
	"task-intake-assistant/internal/slot"
	"task-intake-assistant/pkg/datemath"
	pkgErrors "task-intake-assistant/pkg/errors"
	"task-intake-assistant/pkg/llmprovider"
)

// Models used when a per-request config names a provider but no model.
var defaultModels = map[string]string{
	"openai":     "gpt-4o-mini",
	"openrouter": "openai/gpt-4o-mini",
	"deepseek":   "deepseek-chat",
	"anthropic":  "claude-3-5-haiku-latest",
	"gemini":     "gemini-2.5-flash",
}

// ParseTask implements extraction.UseCase.
func (uc *implUseCase) ParseTask(ctx context.Context, input extraction.ParseInput) (extraction.ParseOutput, error) {
	raw := strings.TrimSpace(input.Input)
	if raw == "" {
		return extraction.ParseOutput{}, extraction.ErrEmptyInput
	}

	now := uc.now()
	// An all-null currentTaskInfo carries nothing to merge into.
	firstTurn := strings.TrimSpace(input.PreviousContext) == "" && !input.CurrentTaskInfo.HasValues()

	if !firstTurn {
		if out, ok := uc.resolveLocally(raw, input); ok {
			return out, nil
		}
	}

	info, err := uc.extractWithLLM(ctx, input, raw, firstTurn, now)
	if err != nil {
		uc.l.Warnf(ctx, "%s.ParseTask: extraction failed, using fallback: %v", LogPrefix, err)
		appErr := pkgErrors.LLMAPIError(err)
		return extraction.ParseOutput{
			Result: assembleFallback(fallbackInfo(input, raw, firstTurn), raw),
			Source: extraction.SourceFallback,
			Warning: &extraction.Warning{
				Code:        string(appErr.Code),
				Message:     err.Error(),
				UserMessage: appErr.UserMessage,
			},
			UsedLLM: true,
		}, nil
	}

	return extraction.ParseOutput{
		Result:  assembleResult(info, raw),
		Source:  extraction.SourceLLM,
		UsedLLM: true,
	}, nil
}

// resolveLocally answers control tokens and canned options without the model.
func (uc *implUseCase) resolveLocally(raw string, input extraction.ParseInput) (extraction.ParseOutput, bool) {
	res := uc.resolver.MapSelectionToField(raw, input.CurrentField, input.CurrentTaskInfo)

	if res.Action != resolver.ActionNone {
		return extraction.ParseOutput{
			Result: assembleResult(input.CurrentTaskInfo, raw),
			Source: extraction.SourceControl,
			Action: res.Action,
		}, true
	}
	if !res.Success {
		return extraction.ParseOutput{}, false
	}

	info, err := ApplyMapping(input.CurrentTaskInfo, res)
	if err != nil {
		return extraction.ParseOutput{}, false
	}
	return extraction.ParseOutput{
		Result: assembleResult(info, raw),
		Source: extraction.SourceResolver,
	}, true
}

// ApplyMapping applies a successful resolver result to info. A clock-time
// result also fills scheduledDate when it was not known yet.
func ApplyMapping(info model.TaskInfo, res resolver.FieldMappingResult) (model.TaskInfo, error) {
	info, err := slot.ApplyPatch(info, res.Field, res.Value)
	if err != nil {
		return info, err
	}
	if res.ScheduledAt != "" && !info.ScheduledDate.HasValue() {
		if parts, ok := datemath.SplitDateTime(res.ScheduledAt); ok {
			info.ScheduledDate = model.Some(parts.Date)
		}
	}
	return info, nil
}

func (uc *implUseCase) extractWithLLM(ctx context.Context, input extraction.ParseInput, raw string, firstTurn bool, now time.Time) (model.TaskInfo, error) {
	provider, err := uc.providerFor(ctx, input.LLM)
	if err != nil {
		return model.TaskInfo{}, err
	}

	current, err := json.Marshal(input.CurrentTaskInfo)
	if err != nil {
		return model.TaskInfo{}, err
	}
	system, user, err := uc.prompts.render(firstTurn, promptData{
		Input:           raw,
		Anchors:         datemath.BuildAnchors(now),
		CurrentTaskInfo: string(current),
		CurrentField:    input.CurrentField,
		PreviousContext: input.PreviousContext,
	})
	if err != nil {
		return model.TaskInfo{}, err
	}

	req := llmprovider.UserPrompt(system, user)
	req.Temperature = uc.temperature
	req.MaxTokens = defaultMaxTokens
	req.JSONMode = true

	resp, err := provider.GenerateContent(ctx, req)
	if err != nil {
		return model.TaskInfo{}, err
	}
	uc.l.Debugf(ctx, "%s.extractWithLLM: provider=%s raw=%q", LogPrefix, resp.ProviderName, resp.Content)

	body, err := ExtractJSON(resp.Content)
	if err != nil {
		return model.TaskInfo{}, err
	}

	absent := AbsentUnchanged
	if firstTurn {
		absent = AbsentAsNone
	}
	decoded, err := DecodeExtraction(body, now, absent)
	if err != nil {
		return model.TaskInfo{}, err
	}

	if firstTurn {
		if !decoded.Title.HasValue() {
			decoded.Title = model.Some(raw)
		}
		return decoded, nil
	}
	return mergeContinuation(input, decoded, raw), nil
}

// mergeContinuation overlays decoded onto the accumulated state. A valid
// prior title survives an invalid or missing new one; otherwise an invalid
// title is replaced by the raw input.
func mergeContinuation(input extraction.ParseInput, decoded model.TaskInfo, raw string) model.TaskInfo {
	prev := input.CurrentTaskInfo
	prevTitle, _ := prev.Title.Get()
	newTitle, hasNew := decoded.Title.Get()

	if hasNew && !slot.IsValidTitle(newTitle) && slot.IsValidTitle(prevTitle) {
		decoded.Title = model.Opt[string]{}
	}
	merged := prev.Merge(decoded)

	if title, _ := merged.Title.Get(); !slot.IsValidTitle(title) {
		merged.Title = model.Some(raw)
	}
	return merged
}

// providerFor picks the per-request provider when the caller sent a key,
// the server's provider otherwise.
func (uc *implUseCase) providerFor(ctx context.Context, cfg extraction.LLMConfig) (llmprovider.Provider, error) {
	if cfg.APIKey == "" {
		if uc.llm == nil {
			return nil, llmprovider.ErrNoProvidersConfigured
		}
		return uc.llm, nil
	}

	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = "openai"
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModels[name]
	}
	return uc.newProvider(ctx, config.ProviderConfig{
		Name:    name,
		APIKey:  cfg.APIKey,
		Model:   modelName,
		BaseURL: cfg.BaseURL,
	})
}

// fallbackInfo is the safe default when the model cannot be used: the raw
// input as title and "personal" as category, keeping prior values on
// continuation turns.
func fallbackInfo(input extraction.ParseInput, raw string, firstTurn bool) model.TaskInfo {
	if firstTurn {
		return model.TaskInfo{
			Title:           model.Some(raw),
			Category:        model.Some(model.CategoryPersonal),
			Deadline:        model.None[string](),
			ScheduledDate:   model.None[string](),
			ScheduledTime:   model.None[string](),
			DurationMinutes: model.None[int](),
		}
	}

	info := input.CurrentTaskInfo
	if title, _ := info.Title.Get(); !slot.IsValidTitle(title) {
		info.Title = model.Some(raw)
	}
	if c, ok := info.Category.Get(); !ok || !c.Valid() {
		info.Category = model.Some(model.CategoryPersonal)
	}
	return info
}

// assembleFallback builds the failure-open result: the defaults are
// registrable as they are, so it is complete and offers confirmation.
func assembleFallback(info model.TaskInfo, raw string) extraction.ParseResult {
	res := assembleResult(info, raw)
	confirm := slot.ConfirmPrompt()
	res.MissingFields = []model.Field{}
	res.NextQuestion = &confirm.Question
	res.ClarificationOptions = confirm.Options
	res.IsComplete = true
	return res
}

// assembleResult derives the missing fields, next question and context.
func assembleResult(info model.TaskInfo, raw string) extraction.ParseResult {
	missing := slot.MissingRequiredFields(info)

	prompt := slot.ConfirmPrompt()
	if len(missing) > 0 {
		if p, ok := slot.Prompt(missing[0]); ok {
			prompt = p
		}
	}
	question := prompt.Question
	options := prompt.Options
	if options == nil {
		options = []string{}
	}

	ctxText := raw
	if title, ok := info.Title.Get(); ok && strings.TrimSpace(title) != "" {
		ctxText = title
	}

	return extraction.ParseResult{
		TaskInfo:             info,
		MissingFields:        missing,
		NextQuestion:         &question,
		ClarificationOptions: options,
		IsComplete:           len(missing) == 0,
		RawInput:             raw,
		ConversationContext:  ctxText,
	}
}
