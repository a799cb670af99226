package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"
	"payflow/internal/observability"
	"payflow/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Circuit breaker names, one per collaborator.
const (
	DepRouteOptimizer = "route_optimizer"
	DepCompliance     = "compliance"
	DepRateSource     = "rate_source"
	DepExecutionRail  = "execution_rail"
	DepSettlementRail = "settlement_rail"
	DepYieldManager   = "yield_manager"
	DepNotifier       = "notifier"

	DepRebalanceExecutor = "rebalance_executor"
	DepRiskAdvisor       = "risk_advisor"
)

// Payment event types sent to the notifier.
const (
	EventPaymentCompleted      = "payment.completed"
	EventPaymentFailed         = "payment.failed"
	EventPaymentCancelled      = "payment.cancelled"
	EventPaymentReviewRequired = "payment.review_required"
)

// SagaConfig bounds what the saga accepts and how long collaborators get.
type SagaConfig struct {
	MinAmount        decimal.Decimal
	MaxAmount        decimal.Decimal // zero means unbounded
	Corridors        []string        // empty means every corridor with a pool
	StageTimeout     time.Duration
	ExecutionTimeout time.Duration
	RateFreshness    time.Duration
	DLQMaxRetries    int
}

// Collaborators are the external systems a saga calls. Notifier and Yield
// may be nil.
type Collaborators struct {
	Router     ports.RouteOptimizer
	Compliance ports.ComplianceEvaluator
	Rates      ports.RateSource
	Execution  ports.ExecutionRail
	Settlement ports.SettlementRail
	Notifier   ports.Notifier
	Yield      ports.YieldManager
}

// PaymentSaga implements ports.PaymentService.
type PaymentSaga struct {
	payments  ports.PaymentRepository
	audit     ports.SagaAuditRepository
	idem      *IdempotencyLock
	liquidity *LiquidityService
	dlq       *DeadLetterQueue
	breakers  *BreakerRegistry
	retry     RetryPolicy
	deps      Collaborators
	cfg       SagaConfig
	corridors map[string]struct{}
	locks     *paymentLocks
	now       func() time.Time
	log       zerolog.Logger
}

var _ ports.PaymentService = (*PaymentSaga)(nil)

// NewPaymentSaga wires the orchestrator.
func NewPaymentSaga(
	payments ports.PaymentRepository,
	audit ports.SagaAuditRepository,
	idem *IdempotencyLock,
	liquidity *LiquidityService,
	dlq *DeadLetterQueue,
	breakers *BreakerRegistry,
	retry RetryPolicy,
	deps Collaborators,
	cfg SagaConfig,
	log zerolog.Logger,
) *PaymentSaga {
	corridors := make(map[string]struct{}, len(cfg.Corridors))
	for _, c := range cfg.Corridors {
		parts := strings.SplitN(c, "-", 2)
		if len(parts) == 2 {
			corridors[domain.CorridorKey(parts[0], parts[1])] = struct{}{}
		}
	}
	return &PaymentSaga{
		payments:  payments,
		audit:     audit,
		idem:      idem,
		liquidity: liquidity,
		dlq:       dlq,
		breakers:  breakers,
		retry:     retry,
		deps:      deps,
		cfg:       cfg,
		corridors: corridors,
		locks:     newPaymentLocks(),
		now:       time.Now,
		log:       log,
	}
}

// sagaRun is the in-flight state of one pass through the pipeline.
type sagaRun struct {
	payment *domain.Payment
	poolID  string
	// sideEffect is set once the execution rail may have moved money.
	sideEffect bool
}

type sagaStep struct {
	stage domain.SagaStage
	run   func(ctx context.Context, r *sagaRun) error
}

func (s *PaymentSaga) pipeline() []sagaStep {
	return []sagaStep{
		{domain.StageRouting, s.routeStage},
		{domain.StageCompliance, s.complianceStage},
		{domain.StageLiquidity, s.liquidityStage},
		{domain.StageRateLock, s.rateLockStage},
		{domain.StageExecution, s.executionStage},
		{domain.StageSettlement, s.settlementStage},
	}
}

// Submit runs a new payment through the saga.
func (s *PaymentSaga) Submit(ctx context.Context, req ports.SubmitPaymentRequest) (*domain.PaymentResult, error) {
	// the saga must not be torn down halfway by a disconnecting client
	ctx = context.WithoutCancel(ctx)

	if strings.TrimSpace(req.IdempotencyKey) == "" {
		err := apperror.ErrValidation("idempotency key is required")
		return failedResult(nil, err), err
	}
	key := domain.BuildIdempotencyKey(req.IdempotencyKey)
	if !s.idem.Acquire(ctx, key) {
		observability.IncrementIdempotencyEvent("conflict")
		err := apperror.ErrIdempotencyConflict()
		return failedResult(nil, err), err
	}
	observability.IncrementIdempotencyEvent("acquired")

	p, err := s.create(ctx, req, key)
	if err != nil {
		if relErr := s.idem.Release(ctx, key); relErr != nil {
			s.log.Error().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
		}
		return failedResult(nil, err), err
	}

	s.log.Info().
		Str("payment_id", p.ID.String()).
		Str("reference", p.Reference).
		Str("corridor", p.Corridor()).
		Str("amount", p.Amount.String()).
		Msg("payment accepted")

	return s.drive(ctx, &sagaRun{payment: p}, domain.StageRouting)
}

func (s *PaymentSaga) create(ctx context.Context, req ports.SubmitPaymentRequest, key string) (*domain.Payment, error) {
	start := time.Now()
	if err := s.validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	ref := strings.TrimSpace(req.Reference)
	if ref == "" {
		ref = "PF-" + strings.ToUpper(uuid.New().String()[:8])
	}
	p := &domain.Payment{
		ID:             uuid.New(),
		Reference:      ref,
		IdempotencyKey: key,
		Amount:         req.Amount,
		FromCurrency:   strings.ToUpper(req.FromCurrency),
		ToCurrency:     strings.ToUpper(req.ToCurrency),
		Sender:         req.Sender,
		Recipient:      req.Recipient,
		Status:         domain.PaymentStatusPending,
		Fees:           decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("creating payment: %w", err))
	}
	s.record(ctx, p, domain.StageValidate, domain.OutcomeSuccess, time.Since(start), nil)
	return p, nil
}

func (s *PaymentSaga) validate(req ports.SubmitPaymentRequest) error {
	if !req.Amount.IsPositive() {
		return apperror.ErrValidation("amount must be greater than zero")
	}
	if req.Amount.LessThan(s.cfg.MinAmount) {
		return apperror.ErrValidation(fmt.Sprintf("amount below minimum %s", s.cfg.MinAmount))
	}
	if s.cfg.MaxAmount.IsPositive() && req.Amount.GreaterThan(s.cfg.MaxAmount) {
		return apperror.ErrValidation(fmt.Sprintf("amount above maximum %s", s.cfg.MaxAmount))
	}
	if len(req.FromCurrency) != 3 || len(req.ToCurrency) != 3 {
		return apperror.ErrValidation("currencies must be ISO 4217 codes")
	}
	if strings.EqualFold(req.FromCurrency, req.ToCurrency) {
		return apperror.ErrValidation("source and destination currency must differ")
	}
	corridor := domain.CorridorKey(req.FromCurrency, req.ToCurrency)
	if len(s.corridors) > 0 {
		if _, ok := s.corridors[corridor]; !ok {
			return apperror.ErrValidation(fmt.Sprintf("corridor %s is not supported", corridor))
		}
	}
	if strings.TrimSpace(req.Recipient.Account) == "" {
		return apperror.ErrValidation("recipient account is required")
	}
	return nil
}

// drive runs the pipeline starting at stage from.
func (s *PaymentSaga) drive(ctx context.Context, r *sagaRun, from domain.SagaStage) (*domain.PaymentResult, error) {
	started := false
	for _, step := range s.pipeline() {
		if !started {
			if step.stage != from {
				continue
			}
			started = true
		}

		err := s.runStep(ctx, r, step)
		if err == nil {
			continue
		}
		if apperror.HasCode(err, "CMP_002") {
			s.notify(ctx, r.payment, EventPaymentReviewRequired)
			return failedResult(r.payment, err), err
		}
		return s.compensate(ctx, r, step.stage, err)
	}

	observability.IncrementSagaResult(r.payment.Status)
	s.notify(ctx, r.payment, EventPaymentCompleted)
	return &domain.PaymentResult{
		Success:   true,
		PaymentID: r.payment.ID,
		Status:    r.payment.Status,
		Message:   "payment completed",
	}, nil
}

// runStep executes one stage while holding the payment's lock. The stored
// status is re-read first so a concurrent cancel or recovery stops the saga.
func (s *PaymentSaga) runStep(ctx context.Context, r *sagaRun, step sagaStep) error {
	unlock := s.locks.Lock(r.payment.ID)
	defer unlock()

	start := time.Now()
	err := s.ensureCurrent(ctx, r.payment)
	if err == nil {
		err = step.run(ctx, r)
	}
	s.record(ctx, r.payment, step.stage, outcomeOf(err), time.Since(start), err)
	return err
}

func (s *PaymentSaga) ensureCurrent(ctx context.Context, p *domain.Payment) error {
	stored, err := s.payments.GetByID(ctx, p.ID)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("reloading payment: %w", err))
	}
	if stored == nil || stored.Status != p.Status {
		return apperror.ErrConcurrentModification()
	}
	return nil
}

func (s *PaymentSaga) routeStage(ctx context.Context, r *sagaRun) error {
	p := r.payment
	if err := s.transition(ctx, p, domain.PaymentStatusRouting); err != nil {
		return err
	}

	var route *domain.Route
	err := s.call(ctx, p, domain.StageRouting, DepRouteOptimizer, s.cfg.StageTimeout, true, func(ctx context.Context) error {
		rt, err := s.deps.Router.SelectRoute(ctx, p.Clone())
		if err != nil {
			return err
		}
		if rt == nil {
			return fmt.Errorf("%w: no route available", ports.ErrPermanent)
		}
		route = rt
		return nil
	})
	if err != nil {
		return err
	}

	p.Route = route
	p.Fees = route.Fee
	return s.transition(ctx, p, domain.PaymentStatusSettling)
}

func (s *PaymentSaga) complianceStage(ctx context.Context, r *sagaRun) error {
	p := r.payment

	var result *domain.ComplianceResult
	err := s.call(ctx, p, domain.StageCompliance, DepCompliance, s.cfg.StageTimeout, true, func(ctx context.Context) error {
		res, err := s.deps.Compliance.Evaluate(ctx, p.Clone())
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return err
	}

	switch result.Verdict {
	case domain.CompliancePass:
		return nil
	case domain.ComplianceReview:
		if err := s.transition(ctx, p, domain.PaymentStatusComplianceReview); err != nil {
			return err
		}
		s.log.Info().
			Str("payment_id", p.ID.String()).
			Float64("risk_score", result.RiskScore).
			Strs("reasons", result.Reasons).
			Msg("payment parked for compliance review")
		return apperror.ErrComplianceReviewRequired()
	default:
		rejected := apperror.ErrComplianceRejected()
		rejected.Err = fmt.Errorf("risk score %.2f: %s", result.RiskScore, strings.Join(result.Reasons, "; "))
		return rejected
	}
}

func (s *PaymentSaga) liquidityStage(ctx context.Context, r *sagaRun) error {
	p := r.payment
	pool, err := s.liquidity.PoolForCorridor(ctx, p.Corridor())
	if err != nil {
		return err
	}
	r.poolID = pool.ID

	reservation, err := s.reserve(ctx, pool.ID, p)
	if apperror.HasCode(err, "LIQ_001") && s.deps.Yield != nil {
		reservation, err = s.reserveAfterUnwind(ctx, p, pool)
	}
	if err != nil {
		return err
	}

	p.ReservationID = &reservation.ID
	return s.persist(ctx, p)
}

func (s *PaymentSaga) reserve(ctx context.Context, poolID string, p *domain.Payment) (*domain.LiquidityReservation, error) {
	var reservation *domain.LiquidityReservation
	err := s.retry.Do(ctx, func(ctx context.Context, _ int) error {
		res, err := s.liquidity.Reserve(ctx, poolID, p.ID, p.Amount, p.FromCurrency)
		if err != nil {
			return err
		}
		reservation = res
		return nil
	})
	return reservation, err
}

// reserveAfterUnwind parks the payment in YIELD_UNWINDING while the yield
// manager tops up the pool, then retries the reservation once.
func (s *PaymentSaga) reserveAfterUnwind(ctx context.Context, p *domain.Payment, pool *domain.LiquidityPool) (*domain.LiquidityReservation, error) {
	start := time.Now()
	shortfall := s.liquidity.Shortfall(pool, p.Amount)

	if err := s.transition(ctx, p, domain.PaymentStatusYieldUnwinding); err != nil {
		return nil, err
	}

	var credited decimal.Decimal
	err := s.call(ctx, p, domain.StageYield, DepYieldManager, s.cfg.StageTimeout, true, func(ctx context.Context) error {
		c, err := s.deps.Yield.Unwind(ctx, pool.ID, shortfall)
		if err != nil {
			return err
		}
		credited = c
		return nil
	})
	if err == nil {
		err = s.liquidity.Credit(ctx, pool.ID, credited)
	}
	s.record(ctx, p, domain.StageYield, outcomeOf(err), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("payment_id", p.ID.String()).
		Str("pool_id", pool.ID).
		Str("shortfall", shortfall.String()).
		Str("credited", credited.String()).
		Msg("yield position unwound into pool")

	if err := s.transition(ctx, p, domain.PaymentStatusSettling); err != nil {
		return nil, err
	}
	return s.reserve(ctx, pool.ID, p)
}

var errStaleRate = errors.New("rate quote older than freshness window")

func (s *PaymentSaga) rateLockStage(ctx context.Context, r *sagaRun) error {
	p := r.payment

	var quote *domain.RateQuote
	err := s.call(ctx, p, domain.StageRateLock, DepRateSource, s.cfg.StageTimeout, true, func(ctx context.Context) error {
		q, err := s.deps.Rates.GetRate(ctx, p.FromCurrency, p.ToCurrency)
		if err != nil {
			return err
		}
		if q == nil || !q.Rate.IsPositive() {
			return fmt.Errorf("%w: invalid rate quote", ports.ErrPermanent)
		}
		if !q.IsFresh(s.now(), s.cfg.RateFreshness) {
			return errStaleRate
		}
		quote = q
		return nil
	})
	if err != nil {
		return err
	}

	p.LockRate(quote.Rate, s.now())
	return s.persist(ctx, p)
}

func (s *PaymentSaga) executionStage(ctx context.Context, r *sagaRun) error {
	p := r.payment
	if p.ReservationID == nil {
		return apperror.ErrReservationNotFound()
	}
	held, err := s.liquidity.IsHeld(ctx, *p.ReservationID)
	if err != nil {
		return err
	}
	if !held {
		return apperror.ErrReservationNotHeld("expired or released")
	}

	var receipt *domain.ExecutionReceipt
	// execution is never retried: a repeated call could pay out twice
	err = s.call(ctx, p, domain.StageExecution, DepExecutionRail, s.cfg.ExecutionTimeout, false, func(ctx context.Context) error {
		rc, err := s.deps.Execution.Execute(ctx, p.Clone(), p.Route)
		if err != nil {
			return err
		}
		receipt = rc
		return nil
	})
	if err != nil {
		// an open breaker or an explicit rejection means the rail never acted
		if apperror.HasCode(err, "DEP_002") || apperror.HasCode(err, "DEP_003") {
			return err
		}
		r.sideEffect = true
		return apperror.ErrExecutionOutcomeUnknown(err)
	}
	r.sideEffect = true

	if receipt != nil {
		p.ExecutionRef = receipt.TxRef
	}
	return s.persist(ctx, p)
}

func (s *PaymentSaga) settlementStage(ctx context.Context, r *sagaRun) error {
	p := r.payment
	amount := p.Amount
	if p.ConvertedAmount != nil {
		amount = *p.ConvertedAmount
	}
	batch := &domain.SettlementBatch{
		ID: uuid.New(),
		Items: []domain.SettlementItem{{
			PaymentID: p.ID,
			Amount:    amount,
			Currency:  p.ToCurrency,
			Recipient: p.Recipient,
			TxRef:     p.ExecutionRef,
		}},
	}

	var receipt *domain.SettlementReceipt
	err := s.call(ctx, p, domain.StageSettlement, DepSettlementRail, s.cfg.StageTimeout, true, func(ctx context.Context) error {
		rc, err := s.deps.Settlement.Settle(ctx, batch)
		if err != nil {
			return err
		}
		receipt = rc
		return nil
	})
	if err != nil {
		return err
	}
	if receipt != nil {
		p.SettlementRef = receipt.TxHash
	}

	if err := s.liquidity.Use(ctx, *p.ReservationID); err != nil {
		// value already moved; the pool needs out-of-band reconciliation
		s.log.Error().Err(err).Str("payment_id", p.ID.String()).Msg("reservation could not be consumed after settlement")
		s.capture(ctx, domain.TaskTypeSettlement, p, domain.StageSettlement, err)
	} else if r.poolID != "" {
		s.liquidity.RecordUsage(r.poolID, p.Amount)
	}

	if err := s.transition(ctx, p, domain.PaymentStatusCompleted); err != nil {
		return err
	}
	if err := s.idem.Complete(ctx, p.IdempotencyKey); err != nil {
		s.log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to mark idempotency key completed")
	}
	return nil
}

// compensate undoes what a failed saga holds and records the failure.
func (s *PaymentSaga) compensate(ctx context.Context, r *sagaRun, stage domain.SagaStage, cause error) (*domain.PaymentResult, error) {
	unlock := s.locks.Lock(r.payment.ID)
	defer unlock()
	return s.compensateLocked(ctx, r, stage, cause)
}

// compensateLocked releases liquidity before the FAILED transition is
// committed, then hands side-effecting failures to the DLQ.
func (s *PaymentSaga) compensateLocked(ctx context.Context, r *sagaRun, stage domain.SagaStage, cause error) (*domain.PaymentResult, error) {
	p := r.payment

	if p.ReservationID != nil {
		if err := s.liquidity.Release(ctx, *p.ReservationID); err != nil {
			s.log.Error().Err(err).
				Str("payment_id", p.ID.String()).
				Str("reservation_id", p.ReservationID.String()).
				Msg("reservation release failed, left to expiry sweep")
		}
	}

	if apperror.HasCode(cause, "FSM_002") {
		// another actor owns the payment now; report what is stored
		if stored, err := s.payments.GetByID(ctx, p.ID); err == nil && stored != nil {
			p = stored
		}
		return failedResult(p, cause), cause
	}

	code := apperror.CodeOf(cause)
	expected := p.Status
	if !p.IsTerminal() {
		p.FailureCode = code
		p.FailureReason = cause.Error()
		if err := p.TransitionTo(domain.PaymentStatusFailed, s.now()); err != nil {
			s.log.Error().Err(err).Str("payment_id", p.ID.String()).Msg("cannot move payment to FAILED")
		} else if err := s.payments.Update(ctx, p, expected); err != nil {
			s.log.Error().Err(err).Str("payment_id", p.ID.String()).Msg("failed to persist FAILED status")
		}
	}

	if r.sideEffect {
		s.capture(ctx, taskTypeFor(stage), p, stage, cause)
		if err := s.idem.Complete(ctx, p.IdempotencyKey); err != nil {
			s.log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to mark idempotency key completed")
		}
	} else if err := s.idem.Release(ctx, p.IdempotencyKey); err != nil {
		s.log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to release idempotency key")
	}

	s.log.Warn().
		Str("payment_id", p.ID.String()).
		Str("stage", string(stage)).
		Str("error_code", code).
		Bool("side_effect", r.sideEffect).
		Msg("payment saga failed")

	observability.IncrementSagaResult(p.Status)
	s.notify(ctx, p, EventPaymentFailed)
	return failedResult(p, cause), cause
}

func (s *PaymentSaga) capture(ctx context.Context, taskType string, p *domain.Payment, stage domain.SagaStage, cause error) {
	payload := domain.PaymentTaskPayload{
		Payment:       p.Clone(),
		Stage:         stage,
		ReservationID: p.ReservationID,
		ErrorCode:     apperror.CodeOf(cause),
	}
	if _, err := s.dlq.Capture(ctx, taskType, payload, cause, s.cfg.DLQMaxRetries); err != nil {
		s.log.Error().Err(err).Str("payment_id", p.ID.String()).Msg("dead letter capture failed")
	}
}

func taskTypeFor(stage domain.SagaStage) string {
	switch stage {
	case domain.StageExecution:
		return domain.TaskTypeExecution
	case domain.StageSettlement:
		return domain.TaskTypeSettlement
	default:
		return domain.TaskTypeSagaRecovery
	}
}

// GetStatus returns the committed payment and its audit trail.
func (s *PaymentSaga) GetStatus(ctx context.Context, paymentID uuid.UUID) (*domain.PaymentSnapshot, error) {
	p, err := s.load(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	trail, err := s.audit.ListByPayment(ctx, paymentID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("loading audit trail: %w", err))
	}
	return &domain.PaymentSnapshot{Payment: p, Trail: trail}, nil
}

// Cancel stops a payment that is still PENDING or parked in review.
func (s *PaymentSaga) Cancel(ctx context.Context, paymentID uuid.UUID) (*domain.PaymentResult, error) {
	ctx = context.WithoutCancel(ctx)
	unlock := s.locks.Lock(paymentID)
	defer unlock()

	p, err := s.load(ctx, paymentID)
	if err != nil {
		return &domain.PaymentResult{PaymentID: paymentID, Message: messageOf(err), ErrorCode: apperror.CodeOf(err)}, err
	}
	if p.Status == domain.PaymentStatusCancelled {
		return &domain.PaymentResult{Success: true, PaymentID: p.ID, Status: p.Status, Message: "payment already cancelled"}, nil
	}
	if p.Status != domain.PaymentStatusPending && p.Status != domain.PaymentStatusComplianceReview {
		err := apperror.ErrInvalidStateTransition(string(p.Status), string(domain.PaymentStatusCancelled))
		return failedResult(p, err), err
	}

	start := time.Now()
	if p.ReservationID != nil {
		if err := s.liquidity.Release(ctx, *p.ReservationID); err != nil {
			return failedResult(p, err), err
		}
	}
	if err := s.transition(ctx, p, domain.PaymentStatusCancelled); err != nil {
		return failedResult(p, err), err
	}
	if err := s.idem.Complete(ctx, p.IdempotencyKey); err != nil {
		s.log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to mark idempotency key completed")
	}
	s.record(ctx, p, domain.StageCancel, domain.OutcomeSuccess, time.Since(start), nil)
	observability.IncrementSagaResult(p.Status)
	s.notify(ctx, p, EventPaymentCancelled)

	return &domain.PaymentResult{Success: true, PaymentID: p.ID, Status: p.Status, Message: "payment cancelled"}, nil
}

// Resume applies a manual compliance decision to a parked payment. Approval
// continues the saga at the liquidity stage.
func (s *PaymentSaga) Resume(ctx context.Context, paymentID uuid.UUID, decision domain.ReviewDecision, reviewer string) (*domain.PaymentResult, error) {
	ctx = context.WithoutCancel(ctx)
	if decision != domain.ReviewApprove && decision != domain.ReviewReject {
		err := apperror.ErrValidation("decision must be approve or reject")
		return &domain.PaymentResult{PaymentID: paymentID, Message: messageOf(err), ErrorCode: apperror.CodeOf(err)}, err
	}

	unlock := s.locks.Lock(paymentID)
	p, err := s.load(ctx, paymentID)
	if err != nil {
		unlock()
		return &domain.PaymentResult{PaymentID: paymentID, Message: messageOf(err), ErrorCode: apperror.CodeOf(err)}, err
	}
	if p.Status != domain.PaymentStatusComplianceReview {
		unlock()
		err := apperror.ErrInvalidStateTransition(string(p.Status), string(domain.PaymentStatusSettling))
		return failedResult(p, err), err
	}

	r := &sagaRun{payment: p}
	s.log.Info().
		Str("payment_id", p.ID.String()).
		Str("decision", string(decision)).
		Str("reviewer", reviewer).
		Msg("compliance review decided")

	if decision == domain.ReviewReject {
		cause := apperror.ErrComplianceRejected()
		s.record(ctx, p, domain.StageReview, domain.OutcomeFatal, 0, fmt.Errorf("rejected by %s: %w", reviewer, cause))
		defer unlock()
		return s.compensateLocked(ctx, r, domain.StageReview, cause)
	}

	err = s.transition(ctx, p, domain.PaymentStatusSettling)
	s.record(ctx, p, domain.StageReview, outcomeOf(err), 0, err)
	unlock()
	if err != nil {
		return failedResult(p, err), err
	}
	return s.drive(ctx, r, domain.StageLiquidity)
}

// RecoverStale fails sagas that stopped making progress (process crash,
// lost goroutine) and captures them for reconciliation.
func (s *PaymentSaga) RecoverStale(ctx context.Context, staleAfter time.Duration, limit int) (int, error) {
	cutoff := s.now().Add(-staleAfter)
	inFlight := []domain.PaymentStatus{
		domain.PaymentStatusRouting,
		domain.PaymentStatusSettling,
		domain.PaymentStatusYieldUnwinding,
	}
	stale, err := s.payments.ListByStatusUpdatedBefore(ctx, inFlight, cutoff, limit)
	if err != nil {
		return 0, apperror.ErrDatabaseError(fmt.Errorf("listing stale payments: %w", err))
	}

	recovered := 0
	for _, candidate := range stale {
		if s.recoverOne(ctx, candidate.ID, cutoff) {
			recovered++
		}
	}
	return recovered, nil
}

func (s *PaymentSaga) recoverOne(ctx context.Context, id uuid.UUID, cutoff time.Time) bool {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.load(ctx, id)
	if err != nil || p.IsTerminal() || p.Status == domain.PaymentStatusComplianceReview || p.UpdatedAt.After(cutoff) {
		return false
	}

	s.record(ctx, p, domain.StageRecovery, domain.OutcomeFatal, 0, apperror.ErrSagaAbandoned())
	r := &sagaRun{payment: p, sideEffect: true}
	_, _ = s.compensateLocked(ctx, r, domain.StageRecovery, apperror.ErrSagaAbandoned())
	return true
}

// call wraps one collaborator invocation with its circuit breaker, a
// timeout and, when retry is set, the shared retry policy.
func (s *PaymentSaga) call(ctx context.Context, p *domain.Payment, stage domain.SagaStage, dependency string, timeout time.Duration, retry bool, fn func(ctx context.Context) error) error {
	guard := CallGuard{Breakers: s.breakers, Timeout: timeout}

	attempt := func(ctx context.Context, n int) error {
		start := time.Now()
		err := guard.Do(ctx, dependency, fn)
		if err != nil && retry && apperror.IsRetryable(err) && !apperror.HasCode(err, "DEP_002") {
			s.record(ctx, p, stage, domain.OutcomeRetryable, time.Since(start), err)
			s.log.Debug().Err(err).Str("payment_id", p.ID.String()).Str("dependency", dependency).Int("attempt", n+1).Msg("collaborator call failed")
		}
		return err
	}

	if !retry {
		return attempt(ctx, 0)
	}
	return s.retry.Do(ctx, attempt)
}

// classify converts collaborator errors to the shared taxonomy.
func classify(dependency string, err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, ports.ErrPermanent):
		return apperror.ErrDependencyRejected(dependency, err)
	default:
		return apperror.ErrDependencyUnavailable(dependency, err)
	}
}

func (s *PaymentSaga) notify(ctx context.Context, p *domain.Payment, eventType string) {
	if s.deps.Notifier == nil {
		return
	}
	start := time.Now()
	event := &domain.PaymentEvent{
		Type:       eventType,
		PaymentID:  p.ID,
		Reference:  p.Reference,
		Status:     p.Status,
		Amount:     p.Amount,
		Currency:   p.FromCurrency,
		OccurredAt: s.now(),
	}
	err := s.call(ctx, p, domain.StageNotify, DepNotifier, s.cfg.StageTimeout, false, func(ctx context.Context) error {
		return s.deps.Notifier.Notify(ctx, event)
	})
	s.record(ctx, p, domain.StageNotify, outcomeOf(err), time.Since(start), err)
	if err != nil {
		s.log.Warn().Err(err).Str("payment_id", p.ID.String()).Str("event", eventType).Msg("notification not delivered")
	}
}

func (s *PaymentSaga) transition(ctx context.Context, p *domain.Payment, to domain.PaymentStatus) error {
	expected := p.Status
	if err := p.TransitionTo(to, s.now()); err != nil {
		return err
	}
	if err := s.payments.Update(ctx, p, expected); err != nil {
		p.Status = expected
		if errors.Is(err, ports.ErrStaleWrite) {
			return apperror.ErrConcurrentModification()
		}
		return apperror.ErrDatabaseError(fmt.Errorf("updating payment: %w", err))
	}
	return nil
}

// persist writes stage output without changing status.
func (s *PaymentSaga) persist(ctx context.Context, p *domain.Payment) error {
	return s.transition(ctx, p, p.Status)
}

func (s *PaymentSaga) load(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("loading payment: %w", err))
	}
	if p == nil {
		return nil, apperror.ErrNotFound("Payment")
	}
	return p, nil
}

func (s *PaymentSaga) record(ctx context.Context, p *domain.Payment, stage domain.SagaStage, outcome domain.StageOutcome, latency time.Duration, stageErr error) {
	entry := &domain.SagaAuditEntry{
		ID:        uuid.New(),
		PaymentID: p.ID,
		Stage:     stage,
		Outcome:   outcome,
		Status:    p.Status,
		LatencyMS: latency.Milliseconds(),
		CreatedAt: s.now(),
	}
	if stageErr != nil {
		entry.ErrorCode = apperror.CodeOf(stageErr)
		entry.Detail = stageErr.Error()
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to persist saga audit entry")
	}
	observability.ObserveStage(stage, outcome, latency)

	s.log.Debug().
		Str("payment_id", p.ID.String()).
		Str("stage", string(stage)).
		Str("outcome", string(outcome)).
		Int64("latency_ms", entry.LatencyMS).
		Str("error_code", entry.ErrorCode).
		Msg("saga stage")
}

func outcomeOf(err error) domain.StageOutcome {
	switch {
	case err == nil:
		return domain.OutcomeSuccess
	case apperror.HasCode(err, "CMP_002"):
		return domain.OutcomePaused
	default:
		return domain.OutcomeFatal
	}
}

func failedResult(p *domain.Payment, err error) *domain.PaymentResult {
	res := &domain.PaymentResult{
		Message:   messageOf(err),
		ErrorCode: apperror.CodeOf(err),
	}
	if p != nil {
		res.PaymentID = p.ID
		res.Status = p.Status
	}
	return res
}

func messageOf(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
