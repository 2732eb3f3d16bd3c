package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/Sr1515/social_network/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const pdfTimeout = 30 * time.Second

//go:embed templates/transcript.html
var transcriptSource string

var transcriptTemplate = template.Must(template.New("transcript").Parse(transcriptSource))

type TranscriptLine struct {
	Sender  string
	Content string
	SentAt  time.Time
}

type Transcript struct {
	ConversationID uuid.UUID
	Participants   [2]string
	Lines          []TranscriptLine
	GeneratedAt    time.Time
}

// BuildTranscript expects User1 and User2 to be loaded on conversation.
func BuildTranscript(conversation *models.Conversation, messages []models.Message, now time.Time) Transcript {
	names := map[uuid.UUID]string{
		conversation.User1ID: conversation.User1.Username,
		conversation.User2ID: conversation.User2.Username,
	}

	lines := make([]TranscriptLine, 0, len(messages))
	for _, m := range messages {
		sender, ok := names[m.SenderID]
		if !ok || sender == "" {
			sender = "unknown"
		}
		lines = append(lines, TranscriptLine{Sender: sender, Content: m.Content, SentAt: m.CreatedAt})
	}

	return Transcript{
		ConversationID: conversation.ID,
		Participants:   [2]string{conversation.User1.Username, conversation.User2.Username},
		Lines:          lines,
		GeneratedAt:    now,
	}
}

func RenderTranscriptHTML(t Transcript) (string, error) {
	var rendered bytes.Buffer
	if err := transcriptTemplate.Execute(&rendered, t); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// ExportTranscript renders the conversation to PDF in headless Chrome and uploads it,
// returning the PDF's URL.
func ExportTranscript(ctx context.Context, conversation *models.Conversation, messages []models.Message) (string, error) {
	htmlData, err := RenderTranscriptHTML(BuildTranscript(conversation, messages, time.Now()))
	if err != nil {
		return "", fmt.Errorf("render transcript: %w", err)
	}

	pdfBytes, err := generatePDFFromHTML(ctx, htmlData)
	if err != nil {
		return "", fmt.Errorf("print transcript: %w", err)
	}

	url, err := uploadPDF(ctx, pdfBytes, conversation.ID)
	if err != nil {
		return "", fmt.Errorf("upload transcript: %w", err)
	}
	log.Printf("✅ Exported transcript of conversation %s (%d messages).", conversation.ID, len(messages))
	return url, nil
}

func generatePDFFromHTML(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()
	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadPDF(ctx context.Context, fileBytes []byte, conversationID uuid.UUID) (string, error) {
	cld, err := newCloudinary()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	result, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploader.UploadParams{
		PublicID:     fmt.Sprintf("%s_%d", conversationID, time.Now().Unix()),
		Folder:       TranscriptFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
