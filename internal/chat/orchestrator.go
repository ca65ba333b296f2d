package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexaid-ng/lexaid/internal/analytics"
	"github.com/lexaid-ng/lexaid/internal/analyzer"
	"github.com/lexaid-ng/lexaid/internal/conversation"
	"github.com/lexaid-ng/lexaid/internal/llm"
	"github.com/lexaid-ng/lexaid/internal/qa"
	"github.com/lexaid-ng/lexaid/internal/references"
)

const (
	systemPreamble = `You are a Nigerian legal expert AI assistant. Answer directly and confidently. No apologies or disclaimers. Lead with the rule in one sentence, then targeted analysis and next steps. Cite only what is relevant.`

	// Number of recent history turns replayed to the model.
	historyWindow = 6

	fallbackLawLimit = 5
)

var caseLawQueryPattern = regexp.MustCompile(`(?i)(case|cases|precedent|authorities|judgment|decision)`)

// ErrEmptyContent rejects turns with blank or whitespace-only content.
var ErrEmptyContent = errors.New("content is required")

var cannedCaseLawAnswer = strings.Join([]string{
	"Yes—Nigerian courts have addressed unlawful searches and privacy; decisions generally treat phone searches without a warrant as presumptively unlawful unless falling within recognized exceptions (lawful arrest with reasonable grounds or genuine exigency).",
	"",
	"What to look for: appellate decisions on s.37 privacy and search/seizure procedure; rulings excluding evidence obtained through unlawful searches under the Evidence Act. When online access is restored, I will list specific case names and brief holdings.",
	"",
	"Next steps: (1) Preserve facts (date/time, officers, what was searched/seized); (2) Engage counsel to assess a rights action and potential exclusion of unlawfully obtained evidence; (3) File complaints with PCRU/NHRC as appropriate.",
}, "\n")

var cannedGeneralAnswer = strings.Join([]string{
	"No—police in Nigeria cannot search your phone without a lawful basis. A court-issued warrant is the default; limited exceptions are a search incident to a lawful arrest with reasonable grounds, or genuine exigency (imminent harm or destruction of evidence).",
	"",
	"Legal basis: Constitution (1999) s.37 (privacy); criminal procedure on warrants and searches; Evidence Act (lawful collection); Police Act (powers subject to due process).",
	"",
	"What to do: (1) Ask if you are under arrest and request to see a warrant; (2) If none, calmly state you do not consent; (3) Do not obstruct—note officers/IDs; (4) If force/seizure occurred, document and seek counsel; (5) Consider PCRU/NHRC complaints or court redress.",
}, "\n")

// Orchestrator drives a single chat turn: retrieval backend first, then the
// local context pipeline with a model call, then scoring and persistence.
type Orchestrator struct {
	manager   *conversation.Manager
	store     *Store
	qaStore   *qa.Store
	backend   *Backend
	provider  llm.Provider
	model     string
	country   string
	analytics *analytics.Store
}

// NewOrchestrator wires up the chat turn pipeline. provider may be nil when
// no API key is configured; turns then use the offline answers.
func NewOrchestrator(manager *conversation.Manager, store *Store, qaStore *qa.Store, backend *Backend, provider llm.Provider, model, country string) *Orchestrator {
	return &Orchestrator{
		manager:  manager,
		store:    store,
		qaStore:  qaStore,
		backend:  backend,
		provider: provider,
		model:    model,
		country:  country,
	}
}

// WithAnalytics enables usage event recording for each processed turn.
func (o *Orchestrator) WithAnalytics(store *analytics.Store) *Orchestrator {
	o.analytics = store
	return o
}

// SendRequest is one inbound user turn.
type SendRequest struct {
	Content   string
	SessionID string
	UserID    string
	Country   string
}

// Send processes one user turn and returns the assistant message.
func (o *Orchestrator) Send(ctx context.Context, req SendRequest) (*conversation.Message, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}
	if req.SessionID == "" {
		req.SessionID = "default_session"
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}
	country := req.Country
	if country == "" {
		country = o.country
	}

	// The retrieval backend answers first when it can. Its answer is
	// returned as-is and skips the local pipeline entirely.
	if answer, err := o.backend.Send(ctx, req.Content, country); err == nil && answer != nil {
		msg := &conversation.Message{
			ID:         answer.ID,
			Role:       conversation.RoleAssistant,
			Content:    answer.Content,
			Timestamp:  time.Now().UTC(),
			References: answer.References,
		}
		if msg.ID == "" {
			msg.ID = "msg_" + uuid.New().String()
		}
		if msg.References == nil {
			msg.References = &references.References{Laws: []string{}, Cases: []string{}}
		}
		return msg, nil
	}

	update := analyzer.ExtractContext(req.Content)
	userMsg := conversation.Message{
		ID:        "msg_" + uuid.New().String(),
		Role:      conversation.RoleUser,
		Content:   req.Content,
		Timestamp: time.Now().UTC(),
	}
	// Seed the session with the real user ID before the role-only update.
	o.manager.GetOrCreateState(req.SessionID, req.UserID)
	state := o.manager.UpdateState(req.SessionID, userMsg, update)
	if err := o.store.SaveMessage(ctx, req.SessionID, userMsg); err != nil {
		return nil, fmt.Errorf("saving user message: %w", err)
	}

	content := o.generate(ctx, req.SessionID, req.Content, state)

	refs := references.Extract(content)
	if len(refs.Laws) == 0 && len(state.LegalContext.ApplicableLaws) > 0 {
		laws := state.LegalContext.ApplicableLaws
		if len(laws) > fallbackLawLimit {
			laws = laws[:fallbackLawLimit]
		}
		refs.Laws = references.CleanAndDedupe(laws)
	}

	assistantMsg := conversation.Message{
		ID:         "msg_" + uuid.New().String(),
		Role:       conversation.RoleAssistant,
		Content:    content,
		Timestamp:  time.Now().UTC(),
		References: &refs,
	}
	o.manager.UpdateState(req.SessionID, assistantMsg, analyzer.ContextUpdate{})
	if err := o.store.SaveMessage(ctx, req.SessionID, assistantMsg); err != nil {
		return nil, fmt.Errorf("saving assistant message: %w", err)
	}

	result := qa.Evaluate(qa.Input{
		SessionID:        req.SessionID,
		MessageID:        assistantMsg.ID,
		UserContent:      req.Content,
		AssistantContent: content,
		ApplicableLaws:   state.LegalContext.ApplicableLaws,
		Stage:            state.LegalContext.CurrentStage,
	})
	if err := o.qaStore.SaveResult(ctx, result); err != nil {
		log.Printf("saving qa result for %s: %v", assistantMsg.ID, err)
	}

	log.Printf("[analytics] send session=%s user=%s len=%d", req.SessionID, req.UserID, len(req.Content))
	if o.analytics != nil {
		event := analytics.Event{
			Type:      analytics.EventChatSend,
			SessionID: req.SessionID,
			UserID:    req.UserID,
			Detail:    map[string]string{"length": strconv.Itoa(len(req.Content))},
		}
		if err := o.analytics.Record(ctx, event); err != nil {
			log.Printf("recording send event: %v", err)
		}
	}

	return &assistantMsg, nil
}

// generate produces the assistant text for a turn, falling back to the
// offline answers when no model is available or the call fails.
func (o *Orchestrator) generate(ctx context.Context, sessionID, content string, state *conversation.State) string {
	if o.provider == nil {
		return o.cannedAnswer(content)
	}

	summary := o.manager.Summary(sessionID)
	instructions := fmt.Sprintf("Stage: %s\nIncident: %s\nApplicableLaws: %s\nCaseSummary: %s",
		state.LegalContext.CurrentStage,
		state.CurrentCase.IncidentType,
		joinOrNA(state.LegalContext.ApplicableLaws),
		summary,
	)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPreamble},
		{Role: llm.RoleSystem, Content: instructions},
	}
	history := state.ConversationHistory
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, m := range history {
		messages = append(messages, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: content})

	resp, err := o.provider.Complete(ctx, llm.CompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	if err != nil {
		log.Printf("completion failed, using offline answer: %v", err)
		return o.cannedAnswer(content)
	}
	if resp.Content == "" {
		return "I could not generate a response."
	}
	return resp.Content
}

func (o *Orchestrator) cannedAnswer(content string) string {
	if caseLawQueryPattern.MatchString(content) {
		return cannedCaseLawAnswer
	}
	return cannedGeneralAnswer
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, "; ")
}
