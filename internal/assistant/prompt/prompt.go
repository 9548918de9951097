package prompt

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"stayhost/pkg/model"
)

const (
	DescriptionLimit = 150
	MaxFeatures      = 3
	Ellipsis         = "..."

	NoAccommodationsPlaceholder = "Nessuna struttura disponibile al momento."
)

type SectionKind string

const (
	SectionPersona          SectionKind = "persona"
	SectionCatalog          SectionKind = "catalog"
	SectionImageMarkup      SectionKind = "image_markup"
	SectionConversationFlow SectionKind = "conversation_flow"
	SectionConstraints      SectionKind = "constraints"
)

// Section is one typed block of the system instruction. Entries are rendered
// one per line; a catalog entry may itself span several lines.
type Section struct {
	Kind    SectionKind
	Title   string
	Entries []string
}

// Template is the ordered list of sections making up the system instruction.
type Template struct {
	Sections []Section
}

func (t Template) Section(kind SectionKind) (Section, bool) {
	for _, s := range t.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

func (t Template) Render() string {
	var sb strings.Builder
	for i, s := range t.Sections {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if s.Title != "" {
			sb.WriteString(s.Title)
			sb.WriteString(":\n")
		}
		sb.WriteString(strings.Join(s.Entries, "\n"))
	}
	return sb.String()
}

// Builder fills the template for one request.
type Builder struct {
	AssistantName string
	OwnerName     string
}

func NewBuilder(assistantName, ownerName string) *Builder {
	return &Builder{
		AssistantName: assistantName,
		OwnerName:     ownerName,
	}
}

// Build assembles the system instruction from the catalog. origin is the
// scheme and host of the incoming request and resolves relative image paths.
func (b *Builder) Build(records []*model.Accommodation, origin string) Template {
	return Template{
		Sections: []Section{
			b.persona(),
			b.catalog(records, origin),
			b.imageMarkup(records, origin),
			b.conversationFlow(),
			b.constraints(),
		},
	}
}

func (b *Builder) persona() Section {
	return Section{
		Kind: SectionPersona,
		Entries: []string{
			fmt.Sprintf("Sei %s, l'assistente virtuale di %s per le sue strutture in affitto breve.", b.AssistantName, b.OwnerName),
			"Rispondi sempre in italiano, con tono cordiale, professionale e conciso.",
			fmt.Sprintf("Se ti chiedono informazioni che non conosci, invita l'utente a contattare direttamente %s.", b.OwnerName),
		},
	}
}

func (b *Builder) catalog(records []*model.Accommodation, origin string) Section {
	s := Section{
		Kind:  SectionCatalog,
		Title: "STRUTTURE DISPONIBILI",
	}
	if len(records) == 0 {
		s.Entries = []string{NoAccommodationsPlaceholder}
		return s
	}

	s.Entries = make([]string, 0, len(records)+1)
	for _, rec := range records {
		s.Entries = append(s.Entries, FormatAccommodation(rec, origin))
	}
	s.Entries = append(s.Entries, "Parla SOLO delle strutture elencate qui sopra. Non inventare mai nomi di strutture.")
	return s
}

func (b *Builder) imageMarkup(records []*model.Accommodation, origin string) Section {
	example := ImageMarkup("https://esempio.it/immagini/casa.jpg", "casa-esempio")
	for _, rec := range records {
		if u := ResolveImageURL(rec.MainImage, origin); u != "" {
			example = ImageMarkup(u, rec.Slug)
			break
		}
	}

	return Section{
		Kind:  SectionImageMarkup,
		Title: "IMMAGINI",
		Entries: []string{
			"Ogni volta che consigli una struttura, includi la sua immagine con esattamente questa sintassi: [IMAGE:<url>:<slug>]",
			"Esempio: " + example,
			"Usa solo gli URL e gli slug elencati nelle strutture disponibili.",
		},
	}
}

func (b *Builder) conversationFlow() Section {
	return Section{
		Kind:  SectionConversationFlow,
		Title: "COME CONDURRE LA CONVERSAZIONE",
		Entries: []string{
			"1. Prima di consigliare, chiedi la zona preferita, il numero di ospiti e le date del soggiorno.",
			"2. Non ripetere domande a cui l'utente ha già risposto.",
			"3. Solo quando hai queste informazioni, proponi le strutture più adatte.",
		},
	}
}

func (b *Builder) constraints() Section {
	return Section{
		Kind:  SectionConstraints,
		Title: "REGOLE",
		Entries: []string{
			"Suggerisci al massimo 2-3 strutture per risposta.",
			"Se nessuna struttura è adatta, dillo chiaramente.",
			"Non promettere disponibilità o prezzi diversi da quelli indicati.",
		},
	}
}

// FormatAccommodation renders one catalog record as a prompt entry.
func FormatAccommodation(a *model.Accommodation, origin string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- %s (slug: %s)", a.Name, a.Slug)

	writeField := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&sb, "\n  %s: %s", label, value)
		}
	}

	description := a.Description
	if strings.TrimSpace(description) == "" {
		description = a.ShortDescription
	}

	writeField("Ospiti", a.Capacity)
	writeField("Descrizione", Truncate(description, DescriptionLimit))
	writeField("Prezzo", a.Price)
	writeField("Servizi", strings.Join(firstN(a.Features, MaxFeatures), ", "))
	writeField("Immagine", ResolveImageURL(a.MainImage, origin))

	return sb.String()
}

// Truncate cuts s to limit characters and appends an ellipsis when it was longer.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " ") + Ellipsis
}

// ResolveImageURL returns ref unchanged when it is already absolute, otherwise
// resolves it against origin. An empty origin leaves relative refs untouched.
func ResolveImageURL(ref, origin string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return ref
	}

	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return ref
	}
	base, err := url.Parse(origin + "/")
	if err != nil || base.Host == "" {
		return origin + "/" + strings.TrimPrefix(ref, "/")
	}

	return base.ResolveReference(refURL).String()
}

func ImageMarkup(imageURL, slug string) string {
	return fmt.Sprintf("[IMAGE:%s:%s]", imageURL, slug)
}

// The slug follows the last colon, so the URL part is matched greedily.
var imageRefPattern = regexp.MustCompile(`\[IMAGE:([^\]\s]+):([A-Za-z0-9_-]+)\]`)

// ParseImageRefs extracts the image references embedded in a generated answer,
// in order of appearance and without duplicates.
func ParseImageRefs(text string) []model.ImageRef {
	matches := imageRefPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]model.ImageRef, 0, len(matches))
	seen := make(map[model.ImageRef]struct{}, len(matches))
	for _, m := range matches {
		ref := model.ImageRef{URL: m[1], Slug: m[2]}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// Conversation prepends the system instruction to the caller's messages. A
// running conversation takes precedence over a single query.
func Conversation(system string, req *model.AssistantRequest) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(req.Messages)+2)
	out = append(out, model.ChatMessage{Role: model.RoleSystem, Content: system})

	if len(req.Messages) > 0 {
		return append(out, req.Messages...)
	}
	return append(out, model.ChatMessage{Role: model.RoleUser, Content: strings.TrimSpace(req.Query)})
}

func firstN(items []string, n int) []string {
	out := make([]string, 0, min(len(items), n))
	for _, item := range items {
		if len(out) == n {
			break
		}
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
