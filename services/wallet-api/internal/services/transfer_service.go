package services

import (
	"context"
	"errors"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
	"github.com/Seer7-SWE/PayTM-clone/pkg/repositories"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/configs"
	"github.com/Seer7-SWE/PayTM-clone/services/wallet-api/internal/observability"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TransferService moves money between two accounts.
type TransferService interface {
	// Transfer debits the sender, credits the receiver and appends a ledger row, all or nothing.
	// Failures are reported in this order: InvalidAmount, AccountNotFound, InsufficientFunds, TransferFailed.
	Transfer(ctx context.Context, traceId string, senderUserID int64, receiverUsername string, amount int64) (models.TransferDetail, error)
}

type TransferServiceImpl struct {
	logger       *zap.Logger
	cfg          *configs.Config
	db           database.Handle
	userRepo     repositories.UserRepository
	accountRepo  repositories.AccountRepository
	transferRepo repositories.TransferRepository
	publisher    TransferPublisher
}

func NewTransferService(logger *zap.Logger, cfg *configs.Config, db database.Handle,
	userRepo repositories.UserRepository, accountRepo repositories.AccountRepository,
	transferRepo repositories.TransferRepository, publisher TransferPublisher) *TransferServiceImpl {
	return &TransferServiceImpl{
		logger:       logger,
		cfg:          cfg,
		db:           db,
		userRepo:     userRepo,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		publisher:    publisher,
	}
}

var (
	errInvalidAmount     = pkg.NewAppError(pkg.ErrInvalidAmountCode, "", pkg.ErrInvalidAmount)
	errAccountNotFound   = pkg.NewAppError(pkg.ErrAccountNotFoundCode, "Sender or Receiver account not found", pkg.ErrAccountNotFound)
	errInsufficientFunds = pkg.NewAppError(pkg.ErrInsufficientFundsCode, "", pkg.ErrInsufficientFunds)
)

func (s *TransferServiceImpl) Transfer(ctx context.Context, traceId string, senderUserID int64, receiverUsername string, amount int64) (models.TransferDetail, error) {
	if amount <= 0 {
		observability.TransfersRejected.WithLabelValues(observability.ReasonInvalidAmount).Inc()
		return models.TransferDetail{}, errInvalidAmount
	}

	if s.cfg.TransferTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.TransferTimeout)
		defer cancel()
	}

	start := time.Now()
	var detail models.TransferDetail
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		receiver, receiverUser, err := s.accountRepo.FindByUsername(ctx, tx, receiverUsername)
		if err != nil {
			return notFoundOr(err)
		}
		sender, err := s.accountRepo.FindByUserID(ctx, tx, senderUserID)
		if err != nil {
			return notFoundOr(err)
		}
		senderUser, err := s.userRepo.FindByID(ctx, tx, senderUserID)
		if err != nil {
			return notFoundOr(err)
		}

		// Row locks in id order serialize concurrent transfers touching either account.
		locked, err := s.accountRepo.LockByIDs(ctx, tx, sender.ID, receiver.ID)
		if err != nil {
			return err
		}
		lockedSender, ok := locked[sender.ID]
		if !ok {
			return errAccountNotFound
		}
		if _, ok = locked[receiver.ID]; !ok {
			return errAccountNotFound
		}
		if lockedSender.Balance < amount {
			return errInsufficientFunds
		}

		debited, err := s.accountRepo.Debit(ctx, tx, sender.ID, amount)
		if err != nil {
			return err
		}
		if !debited {
			return errInsufficientFunds
		}
		if err = s.accountRepo.Credit(ctx, tx, receiver.ID, amount); err != nil {
			return err
		}

		transfer := models.Transfer{Amount: amount, SenderID: sender.ID, ReceiverID: receiver.ID}
		if err = s.transferRepo.Create(ctx, tx, &transfer); err != nil {
			return err
		}
		detail = models.TransferDetail{
			Transfer:         transfer,
			SenderUserID:     senderUser.ID,
			SenderUsername:   senderUser.Username,
			ReceiverUserID:   receiverUser.ID,
			ReceiverUsername: receiverUser.Username,
		}
		return nil
	})
	if err != nil {
		return models.TransferDetail{}, s.reject(traceId, senderUserID, receiverUsername, amount, err)
	}

	observability.TransferLatency.Observe(time.Since(start).Seconds())
	observability.TransfersCompleted.Inc()
	observability.TransferAmount.Observe(float64(amount))

	event := detail.ToTransferEvent(detail.SenderUsername, detail.ReceiverUsername)
	if err = s.publisher.PublishTransfer(traceId, event); err != nil {
		// The ledger row is committed; a lost event must not fail the request.
		s.logger.Warn("transfer_event_publish_failed", zap.String(pkg.TraceId, traceId), zap.Int64("transfer_id", detail.ID), zap.Error(err))
	}

	s.logger.Info("transfer_completed",
		zap.String(pkg.TraceId, traceId),
		zap.Int64("transfer_id", detail.ID),
		zap.Int64("sender_account_id", detail.SenderID),
		zap.Int64("receiver_account_id", detail.ReceiverID),
		zap.Int64("amount", amount),
	)
	return detail, nil
}

// reject records why a transfer did not commit. Business rejections pass through, anything else becomes TransferFailed.
func (s *TransferServiceImpl) reject(traceId string, senderUserID int64, receiverUsername string, amount int64, err error) error {
	fields := []zap.Field{
		zap.String(pkg.TraceId, traceId),
		zap.Int64(pkg.UserId, senderUserID),
		zap.String("receiver", receiverUsername),
		zap.Int64("amount", amount),
	}
	switch {
	case errors.Is(err, pkg.ErrAccountNotFound):
		observability.TransfersRejected.WithLabelValues(observability.ReasonAccountNotFound).Inc()
		s.logger.Warn("transfer_rejected", append(fields, zap.String("reason", observability.ReasonAccountNotFound))...)
		return err
	case errors.Is(err, pkg.ErrInsufficientFunds):
		observability.TransfersRejected.WithLabelValues(observability.ReasonInsufficientFunds).Inc()
		s.logger.Warn("transfer_rejected", append(fields, zap.String("reason", observability.ReasonInsufficientFunds))...)
		return err
	default:
		observability.TransfersRejected.WithLabelValues(observability.ReasonFailed).Inc()
		s.logger.Error("transfer_failed", append(fields, zap.Error(err))...)
		return pkg.NewAppError(pkg.ErrTransferFailedCode, "", errors.Join(pkg.ErrTransferFailed, err))
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errAccountNotFound
	}
	return err
}
