package dialog_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/Vovarama1992/essay_bot/internal/archive"
	"github.com/Vovarama1992/essay_bot/internal/dialog"
	"github.com/Vovarama1992/essay_bot/internal/sessions"
)

type fakeGateway struct {
	mu        sync.Mutex
	outlines  []string
	texts     []string
	essay     string
	check     string
	err       error
	block     chan struct{}
	inFlight  int
	maxFlight int
}

func (f *fakeGateway) enter() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeGateway) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeGateway) Generate(_ context.Context, outline string) (string, error) {
	f.enter()
	defer f.leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outlines = append(f.outlines, outline)
	return f.essay, f.err
}

func (f *fakeGateway) CheckPlagiarism(_ context.Context, text string) (string, error) {
	f.enter()
	defer f.leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.check, f.err
}

type fakeArchive struct {
	mu      sync.Mutex
	entries []archive.Entry
	err     error
}

func (f *fakeArchive) Save(_ context.Context, e archive.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return f.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	errs []error
}

func (f *fakeNotifier) Notify(_ context.Context, err error, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
	return nil
}

type inbox struct {
	mu      sync.Mutex
	replies []dialog.Reply
}

func (b *inbox) reply(_ context.Context, r dialog.Reply) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies = append(b.replies, r)
	return nil
}

func (b *inbox) all() []dialog.Reply {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]dialog.Reply(nil), b.replies...)
}

func (b *inbox) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies = nil
}

const user int64 = 1139929360

var _ = Describe("Controller", func() {
	var (
		ctx      context.Context
		store    sessions.Store
		gw       *fakeGateway
		arch     *fakeArchive
		notifier *fakeNotifier
		box      *inbox
		ctrl     *dialog.Controller
	)

	state := func(id int64) sessions.State {
		s, err := store.Get(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		return s.State
	}

	send := func(id int64, ev dialog.Event) {
		Expect(ctrl.Handle(ctx, id, ev, box.reply)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = sessions.NewMemoryStore(0)
		gw = &fakeGateway{essay: "Сочинение о природе.", check: "{\n  \"unique\": 97.5\n}"}
		arch = &fakeArchive{}
		notifier = &fakeNotifier{}
		box = &inbox{}
		ctrl = dialog.NewController(store, gw, arch, notifier, zap.NewNop().Sugar())
	})

	It("runs the generate flow end to end", func() {
		send(user, dialog.Event{Kind: dialog.EventCommand, Command: dialog.CmdStart, Text: "/start"})
		Expect(box.all()).To(Equal([]dialog.Reply{{Text: dialog.MsgGreeting, Menu: dialog.MenuMain}}))
		Expect(state(user)).To(Equal(sessions.StateIdle))

		box.reset()
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})
		Expect(state(user)).To(Equal(sessions.StateAwaitingOutline))
		Expect(box.all()).To(Equal([]dialog.Reply{{Text: dialog.MsgAskOutline}}))

		box.reset()
		send(user, dialog.Event{Kind: dialog.EventText, Text: "1. Природа\n2. Человек"})

		Expect(gw.outlines).To(Equal([]string{"1. Природа\n2. Человек"}))
		Expect(state(user)).To(Equal(sessions.StateIdle))

		replies := box.all()
		Expect(replies).To(HaveLen(2))
		Expect(replies[0].Text).To(Equal(dialog.MsgGenerating))
		Expect(replies[1].Text).To(Equal(dialog.MsgEssayResult + "Сочинение о природе."))
		Expect(replies[1].Menu).To(Equal(dialog.MenuAfterEssay))

		Expect(arch.entries).To(HaveLen(1))
		Expect(arch.entries[0].Kind).To(Equal(archive.KindEssay))
		Expect(arch.entries[0].TelegramID).To(Equal(user))
		Expect(arch.entries[0].Output).To(Equal("Сочинение о природе."))
	})

	It("runs the check flow and returns to idle", func() {
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbCheck})
		box.reset()
		send(user, dialog.Event{Kind: dialog.EventText, Text: "Проверь меня"})

		Expect(gw.texts).To(Equal([]string{"Проверь меня"}))
		Expect(gw.outlines).To(BeEmpty())
		Expect(state(user)).To(Equal(sessions.StateIdle))

		replies := box.all()
		Expect(replies).To(HaveLen(2))
		Expect(replies[1]).To(Equal(dialog.Reply{
			Text: dialog.MsgCheckResult + "{\n  \"unique\": 97.5\n}",
			Menu: dialog.MenuMain,
		}))
	})

	It("lets the later menu selection overwrite the pending one", func() {
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbCheck})
		Expect(state(user)).To(Equal(sessions.StateAwaitingCheckText))

		send(user, dialog.Event{Kind: dialog.EventText, Text: "текст"})
		Expect(gw.outlines).To(BeEmpty())
		Expect(gw.texts).To(Equal([]string{"текст"}))
	})

	It("surfaces in-band gateway error strings as ordinary answers", func() {
		gw.essay = "OpenAI API error 500: server error"
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})
		box.reset()
		send(user, dialog.Event{Kind: dialog.EventText, Text: "план"})

		Expect(box.all()[1].Text).To(ContainSubstring("OpenAI API error 500: server error"))
		Expect(notifier.errs).To(BeEmpty())
		Expect(state(user)).To(Equal(sessions.StateIdle))
	})

	It("turns transport faults into a generic failure reply and resets the session", func() {
		gw.err = errors.New("context deadline exceeded")
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})
		box.reset()
		send(user, dialog.Event{Kind: dialog.EventText, Text: "план"})

		replies := box.all()
		Expect(replies).To(HaveLen(2))
		Expect(replies[1]).To(Equal(dialog.Reply{Text: dialog.MsgServiceUnavailable, Menu: dialog.MenuMain}))
		Expect(state(user)).To(Equal(sessions.StateIdle))
		Expect(notifier.errs).To(HaveLen(1))
		Expect(arch.entries).To(BeEmpty())
	})

	It("keeps answering when the archive fails", func() {
		arch.err = errors.New("bucket gone")
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})
		Expect(ctrl.Handle(ctx, user, dialog.Event{Kind: dialog.EventText, Text: "план"}, box.reply)).To(Succeed())
	})

	It("keeps sessions of different users apart", func() {
		const other int64 = 6789440333

		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})
		send(other, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbCheck})

		Expect(state(user)).To(Equal(sessions.StateAwaitingOutline))
		Expect(state(other)).To(Equal(sessions.StateAwaitingCheckText))

		send(other, dialog.Event{Kind: dialog.EventText, Text: "чужой текст"})
		Expect(state(user)).To(Equal(sessions.StateAwaitingOutline))
		Expect(gw.texts).To(Equal([]string{"чужой текст"}))
		Expect(gw.outlines).To(BeEmpty())
	})

	It("resets a pending flow on /start", func() {
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})
		send(user, dialog.Event{Kind: dialog.EventCommand, Command: dialog.CmdStart, Text: "/start"})
		Expect(state(user)).To(Equal(sessions.StateIdle))
	})

	It("returns reply errors to the caller", func() {
		failing := func(context.Context, dialog.Reply) error { return errors.New("chat not found") }
		err := ctrl.Handle(ctx, user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbHelp}, failing)
		Expect(err).To(MatchError("chat not found"))
	})

	It("still calls the gateway when the interim reply fails", func() {
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})

		var sent []dialog.Reply
		first := true
		flaky := func(_ context.Context, r dialog.Reply) error {
			if first {
				first = false
				return errors.New("Too Many Requests: retry after 3")
			}
			sent = append(sent, r)
			return nil
		}

		err := ctrl.Handle(ctx, user, dialog.Event{Kind: dialog.EventText, Text: "план"}, flaky)
		Expect(err).NotTo(HaveOccurred())
		Expect(gw.outlines).To(Equal([]string{"план"}))
		Expect(sent).To(HaveLen(1))
		Expect(sent[0].Text).To(Equal(dialog.MsgEssayResult + "Сочинение о природе."))
		Expect(state(user)).To(Equal(sessions.StateIdle))
	})

	It("returns the error of the final reply", func() {
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbCheck})

		failing := func(context.Context, dialog.Reply) error { return errors.New("chat not found") }
		err := ctrl.Handle(ctx, user, dialog.Event{Kind: dialog.EventText, Text: "текст"}, failing)
		Expect(err).To(MatchError("chat not found"))
		Expect(gw.texts).To(Equal([]string{"текст"}))
	})

	It("serializes events of the same user", func() {
		gw.block = make(chan struct{})
		send(user, dialog.Event{Kind: dialog.EventCallback, Data: dialog.CbGenerate})

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			Expect(ctrl.Handle(ctx, user, dialog.Event{Kind: dialog.EventText, Text: "первый"}, box.reply)).To(Succeed())
		}()
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			Expect(ctrl.Handle(ctx, user, dialog.Event{Kind: dialog.EventText, Text: "второй"}, box.reply)).To(Succeed())
		}()

		// первый держит lock внутри шлюза, второй ждёт
		Consistently(func() int {
			gw.mu.Lock()
			defer gw.mu.Unlock()
			return gw.inFlight
		}, 100*time.Millisecond, 10*time.Millisecond).Should(BeNumerically("<=", 1))

		close(gw.block)
		wg.Wait()

		// только одно сообщение было терминальным, второе пришло уже в Idle
		Expect(gw.maxFlight).To(Equal(1))
		Expect(gw.outlines).To(HaveLen(1))
		Expect(state(user)).To(Equal(sessions.StateIdle))
	})
})
