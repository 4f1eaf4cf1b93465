package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikey/llm-scam-check/internal/adapters/console"
	"github.com/mikey/llm-scam-check/internal/core"
	"github.com/mikey/llm-scam-check/internal/utils"
	"go.uber.org/zap"
)

// errExit signals that the user asked to terminate the whole program from
// inside a follow-up session.
var errExit = errors.New("exit requested")

// Options carries the loop's file-trigger settings.
type Options struct {
	// BatchInputFile is checked once at startup; a non-empty file runs one
	// assessment before the prompt appears.
	BatchInputFile string
	// BatchOutputName is the filename the batch assessment is saved under.
	BatchOutputName string
	// MaxInputSize caps how many bytes of one input travel to the provider.
	MaxInputSize int
}

// Loop is the interactive read-prompt-assess cycle. It owns the main
// conversation history for the session.
type Loop struct {
	service   *core.AssessmentService
	followUp  *core.FollowUpService
	presenter *console.Presenter
	store     core.AssessmentStore
	text      *utils.TextProcessor
	logger    *zap.Logger
	scanner   *bufio.Scanner
	out       io.Writer
	history   *core.History
	opts      Options
}

// NewLoop creates the interactive loop reading from in and writing to out.
func NewLoop(
	service *core.AssessmentService,
	followUp *core.FollowUpService,
	presenter *console.Presenter,
	store core.AssessmentStore,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	in io.Reader,
	out io.Writer,
	opts Options,
) *Loop {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Loop{
		service:   service,
		followUp:  followUp,
		presenter: presenter,
		store:     store,
		text:      textProcessor,
		logger:    logger,
		scanner:   scanner,
		out:       out,
		history:   core.NewHistory(core.DefaultHistoryCapacity),
		opts:      opts,
	}
}

// Run executes the batch trigger, then prompts until "exit" or EOF.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.runBatch(ctx); err != nil {
		if errors.Is(err, errExit) {
			return nil
		}
		return err
	}

	for {
		fmt.Fprint(l.out, "\nYou ('exit' to quit): ")
		if !l.scanner.Scan() {
			return l.scanner.Err()
		}

		text := strings.TrimSpace(l.scanner.Text())
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") {
			return nil
		}

		if err := l.assessAndFollowUp(ctx, text, ""); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

// runBatch assesses the contents of the batch input file, if present and
// non-blank. A missing or empty file falls through silently.
func (l *Loop) runBatch(ctx context.Context) error {
	if l.opts.BatchInputFile == "" {
		return nil
	}

	data, err := os.ReadFile(l.opts.BatchInputFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		l.logger.Warn("Failed to read batch input file", zap.Error(err))
		return nil
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil
	}

	l.logger.Info("Running batch assessment", zap.String("file", l.opts.BatchInputFile))
	return l.assessAndFollowUp(ctx, text, l.opts.BatchOutputName)
}

// assessAndFollowUp runs one assessment turn: assess, render, save, then
// hold a follow-up session until the user moves on. Assessment failures are
// rendered and swallowed so the loop continues.
func (l *Loop) assessAndFollowUp(ctx context.Context, text, filename string) error {
	text = l.text.Prepare(text, l.opts.MaxInputSize)

	assessment, err := l.service.Assess(ctx, l.history, text)
	if err != nil {
		l.logger.Error("Assessment failed", zap.Error(err))
		l.presenter.ShowError(err)
		return nil
	}

	l.presenter.ShowAssessment(assessment)

	record := &core.Record{Timestamp: time.Now(), Input: text, Assessment: assessment}
	if err := l.store.Save(record, filename); err != nil {
		// The user already has the rendered result; saving is best effort.
		l.logger.Error("Failed to save assessment", zap.Error(err))
	}

	return l.followUpSession(ctx, assessment)
}

// followUpSession answers questions about one assessment until the user
// types done/next/back (return to the main loop) or exit (terminate).
func (l *Loop) followUpSession(ctx context.Context, assessment *core.Assessment) error {
	assessmentContext := core.BuildFollowUpContext(assessment)
	session := l.followUp.NewSession()

	for {
		fmt.Fprint(l.out, "\nFollow-up ('done' for next check): ")
		if !l.scanner.Scan() {
			return l.scanner.Err()
		}

		question := strings.TrimSpace(l.scanner.Text())
		if question == "" {
			continue
		}

		switch strings.ToLower(question) {
		case "done", "next", "back":
			return nil
		case "exit":
			return errExit
		}

		reply, err := l.followUp.Reply(ctx, session, assessmentContext, question)
		if err != nil {
			l.logger.Error("Follow-up failed", zap.Error(err))
			l.presenter.ShowError(err)
			continue
		}
		l.presenter.ShowReply(reply)
	}
}
