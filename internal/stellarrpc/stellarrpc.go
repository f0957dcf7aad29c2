package stellarrpc

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/protocols/horizon/operations"
	"github.com/stellar/go/txnbuild"

	"github.com/remesalabs/remesa-backend/internal/consts"
	"github.com/remesalabs/remesa-backend/internal/model"
	"github.com/remesalabs/remesa-backend/internal/utils/config"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

type StellarRpc struct {
	client      *horizonclient.Client
	baseKeypair *keypair.Full
	passphrase  string
	logger      *logger.Logger

	// The operating account's sequence number advances on every submission,
	// so provisioning calls are serialized.
	submitMux sync.Mutex
}

func New(appConfig *config.AppConfig, logger *logger.Logger) (IStellarRpc, error) {
	if appConfig.Stellar.BaseSecret == "" {
		return nil, errors.New("STELLAR_BASE_SECRET is not configured")
	}

	baseKeypair, err := keypair.ParseFull(appConfig.Stellar.BaseSecret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse base account secret")
	}

	return &StellarRpc{
		client: &horizonclient.Client{
			HorizonURL: appConfig.Stellar.HorizonURL,
			HTTP:       &http.Client{Timeout: 60 * time.Second},
		},
		baseKeypair: baseKeypair,
		passphrase:  appConfig.Stellar.NetworkPassphrase,
		logger:      logger,
	}, nil
}

func (s *StellarRpc) CreateDepositAccount() (*model.DepositAccount, error) {
	newKeypair, err := keypair.Random()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate deposit keypair")
	}

	s.submitMux.Lock()
	defer s.submitMux.Unlock()

	err = s.submitCreateAccount(newKeypair.Address())
	if err != nil && isBadSequence(err) {
		// Another submitter consumed our sequence number; reload and retry once.
		s.logger.Info("[CreateDepositAccount] retrying after tx_bad_seq", map[string]string{
			"address": newKeypair.Address(),
		})
		err = s.submitCreateAccount(newKeypair.Address())
	}
	if err != nil {
		s.logger.Error("[CreateDepositAccount][submitCreateAccount]", map[string]string{
			"error":   err.Error(),
			"address": newKeypair.Address(),
		})
		return nil, errors.Wrap(err, "failed to provision deposit account")
	}

	return &model.DepositAccount{
		Address: newKeypair.Address(),
		Secret:  newKeypair.Seed(),
	}, nil
}

func (s *StellarRpc) submitCreateAccount(destination string) error {
	sourceAccount, err := s.client.AccountDetail(horizonclient.AccountRequest{
		AccountID: s.baseKeypair.Address(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to load operating account")
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &sourceAccount,
		IncrementSequenceNum: true,
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(consts.ProvisionTxTimeout),
		},
		Operations: []txnbuild.Operation{
			&txnbuild.CreateAccount{
				Destination: destination,
				Amount:      consts.DepositStartingBalance,
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to build create-account transaction")
	}

	tx, err = tx.Sign(s.passphrase, s.baseKeypair)
	if err != nil {
		return errors.Wrap(err, "failed to sign create-account transaction")
	}

	_, err = s.client.SubmitTransaction(tx)
	if err != nil {
		return errors.Wrap(err, "failed to submit create-account transaction")
	}

	return nil
}

func (s *StellarRpc) GetRecentPayments(address string, limit int) ([]model.LedgerPayment, error) {
	page, err := s.client.Payments(horizonclient.OperationRequest{
		ForAccount: address,
		Order:      horizonclient.OrderDesc,
		Limit:      uint(limit),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch payment history")
	}

	payments := []model.LedgerPayment{}
	for _, record := range page.Embedded.Records {
		payment, ok := toLedgerPayment(record)
		if !ok {
			continue
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

func (s *StellarRpc) StreamIncomingPayments(ctx context.Context, address string, handler func(model.LedgerPayment)) error {
	return s.client.StreamPayments(ctx, horizonclient.OperationRequest{
		ForAccount: address,
		Cursor:     "now",
	}, func(op operations.Operation) {
		payment, ok := toLedgerPayment(op)
		if !ok {
			return
		}
		handler(payment)
	})
}

func isBadSequence(err error) bool {
	hzErr := horizonclient.GetError(err)
	if hzErr == nil {
		return false
	}

	resultCodes, rcErr := hzErr.ResultCodes()
	if rcErr != nil {
		return false
	}

	return resultCodes.TransactionCode == "tx_bad_seq"
}
