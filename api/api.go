// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package api

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/bridge"
	"github.com/ChainSafe/sygma-bridge/fee"
	"github.com/ChainSafe/sygma-bridge/forwarder"
	"github.com/ChainSafe/sygma-bridge/health"
	"github.com/ChainSafe/sygma-bridge/store"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Service exposes the bridge engine over JSON http endpoints. Calls that act
// on behalf of a depositor, relayer or admin are only accepted as signed
// forward requests, the caller is the recovered signer.
type Service struct {
	engine     *gin.Engine
	bridge     *bridge.Bridge
	forwarder  *forwarder.Forwarder
	listenAddr string
}

func NewService(listenAddr string, b *bridge.Bridge, f *forwarder.Forwarder) *Service {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	s := &Service{
		engine:     r,
		bridge:     b,
		forwarder:  f,
		listenAddr: listenAddr,
	}
	s.engine.GET("/health", gin.WrapF(health.HealthHandler))
	s.engine.POST("/execute", s.handleExecute)
	s.engine.POST("/execute-batch", s.handleExecuteBatch)
	s.engine.POST("/forward", s.handleForward)
	s.engine.GET("/proposals/:origin/:nonce/:dataHash", s.handleGetProposal)
	s.engine.GET("/deposits/:destination/:nonce", s.handleGetDeposit)
	s.engine.GET("/executed/:origin/:nonce", s.handleIsExecuted)
	s.engine.GET("/deposit-count/:destination", s.handleDepositCount)
	s.engine.GET("/resources/:resourceID", s.handleGetResource)
	return s
}

func (s *Service) Handler() http.Handler {
	return s.engine
}

// Start serves requests until the context is cancelled
func (s *Service) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("Started api on %s", s.listenAddr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type ProposalReq struct {
	OriginDomainID      uint8         `json:"originDomainID"`
	DestinationDomainID uint8         `json:"destinationDomainID"`
	DepositNonce        uint64        `json:"depositNonce"`
	ResourceID          common.Hash   `json:"resourceID"`
	Data                hexutil.Bytes `json:"data"`
}

func (p ProposalReq) proposal() *authority.Proposal {
	return &authority.Proposal{
		OriginDomainID:      p.OriginDomainID,
		DestinationDomainID: p.DestinationDomainID,
		DepositNonce:        p.DepositNonce,
		ResourceID:          types.ResourceID(p.ResourceID),
		Data:                p.Data,
	}
}

type ExecuteReq struct {
	Proposal  ProposalReq   `json:"proposal"`
	Signature hexutil.Bytes `json:"signature"`
}

type ExecuteResponse struct {
	Response hexutil.Bytes `json:"response"`
}

func (s *Service) handleExecute(c *gin.Context) {
	var req ExecuteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := s.bridge.ExecuteWithAuthority(c.Request.Context(), req.Proposal.proposal(), req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExecuteResponse{Response: response})
}

type ExecuteBatchReq struct {
	Proposals []ProposalReq `json:"proposals"`
	Signature hexutil.Bytes `json:"signature"`
}

type ExecutionResultInfo struct {
	DepositNonce   uint64        `json:"depositNonce"`
	OriginDomainID uint8         `json:"originDomainID"`
	Status         string        `json:"status"`
	NonceConsumed  bool          `json:"nonceConsumed"`
	Response       hexutil.Bytes `json:"response,omitempty"`
	Error          string        `json:"error,omitempty"`
}

type ExecuteBatchResponse struct {
	Results []ExecutionResultInfo `json:"results"`
}

func (s *Service) handleExecuteBatch(c *gin.Context) {
	var req ExecuteBatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposals := make([]*authority.Proposal, len(req.Proposals))
	for i, p := range req.Proposals {
		proposals[i] = p.proposal()
	}
	results, err := s.bridge.ExecuteManyWithAuthority(c.Request.Context(), proposals, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}

	response := ExecuteBatchResponse{Results: make([]ExecutionResultInfo, 0, len(results))}
	for _, r := range results {
		info := ExecutionResultInfo{
			DepositNonce:   r.Proposal.DepositNonce,
			OriginDomainID: r.Proposal.OriginDomainID,
			Status:         r.Status.String(),
			NonceConsumed:  r.NonceConsumed,
			Response:       r.Response,
		}
		if r.Err != nil {
			info.Error = r.Err.Error()
		}
		response.Results = append(response.Results, info)
	}
	c.JSON(http.StatusOK, response)
}

type ForwardReq struct {
	From      common.Address        `json:"from"`
	To        common.Address        `json:"to"`
	Value     *math.HexOrDecimal256 `json:"value"`
	Gas       uint64                `json:"gas"`
	Nonce     uint64                `json:"nonce"`
	Data      hexutil.Bytes         `json:"data"`
	Signature hexutil.Bytes         `json:"signature"`
}

func (s *Service) handleForward(c *gin.Context) {
	if s.forwarder == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "forwarder not configured"})
		return
	}

	var req ForwardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	forwardRequest := &forwarder.ForwardRequest{
		From:  req.From,
		To:    req.To,
		Value: (*big.Int)(req.Value),
		Gas:   req.Gas,
		Nonce: req.Nonce,
		Data:  req.Data,
	}
	response, err := s.forwarder.Execute(c.Request.Context(), forwardRequest, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExecuteResponse{Response: response})
}

type ProposalInfo struct {
	OriginDomainID uint8       `json:"originDomainID"`
	DepositNonce   uint64      `json:"depositNonce"`
	DataHash       common.Hash `json:"dataHash"`
	Status         string      `json:"status"`
	YesVotes       []string    `json:"yesVotes"`
	YesVotesTotal  uint64      `json:"yesVotesTotal"`
	ProposedBlock  uint64      `json:"proposedBlock"`
}

func (s *Service) handleGetProposal(c *gin.Context) {
	origin, err := strconv.ParseUint(c.Param("origin"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	depositNonce, err := strconv.ParseUint(c.Param("nonce"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dataHash := common.HexToHash(c.Param("dataHash"))

	p, err := s.bridge.Proposal(uint8(origin), depositNonce, dataHash)
	if err != nil {
		respondError(c, err)
		return
	}

	voters := make([]string, 0, p.YesVotesTotal)
	for i, relayer := range s.bridge.Relayers().Relayers() {
		if types.IsBitSet(&p.YesVotes, uint(i)) {
			voters = append(voters, relayer.Hex())
		}
	}
	c.JSON(http.StatusOK, ProposalInfo{
		OriginDomainID: p.OriginDomainID,
		DepositNonce:   p.DepositNonce,
		DataHash:       p.DataHash,
		Status:         p.Status.String(),
		YesVotes:       voters,
		YesVotesTotal:  p.YesVotesTotal,
		ProposedBlock:  p.ProposedBlock,
	})
}

type DepositInfo struct {
	DestinationDomainID uint8          `json:"destinationDomainID"`
	DepositNonce        uint64         `json:"depositNonce"`
	ResourceID          string         `json:"resourceID"`
	Depositor           common.Address `json:"depositor"`
	Data                hexutil.Bytes  `json:"data"`
	HandlerResponse     hexutil.Bytes  `json:"handlerResponse"`
}

func (s *Service) handleGetDeposit(c *gin.Context) {
	destination, err := strconv.ParseUint(c.Param("destination"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	depositNonce, err := strconv.ParseUint(c.Param("nonce"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := s.bridge.DepositRecord(uint8(destination), depositNonce)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DepositInfo{
		DestinationDomainID: d.DestinationDomainID,
		DepositNonce:        d.DepositNonce,
		ResourceID:          d.ResourceID.Hex(),
		Depositor:           d.Depositor,
		Data:                d.Data,
		HandlerResponse:     d.HandlerResponse,
	})
}

func (s *Service) handleIsExecuted(c *gin.Context) {
	origin, err := strconv.ParseUint(c.Param("origin"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	depositNonce, err := strconv.ParseUint(c.Param("nonce"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	executed, err := s.bridge.IsExecuted(uint8(origin), depositNonce)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"executed": executed})
}

func (s *Service) handleDepositCount(c *gin.Context) {
	destination, err := strconv.ParseUint(c.Param("destination"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := s.bridge.DepositCount(uint8(destination))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"depositCount": count})
}

func (s *Service) handleGetResource(c *gin.Context) {
	resourceID, err := types.ResourceIDFromHex(c.Param("resourceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	handler, err := s.bridge.ResourceHandler(resourceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"handler": handler.Hex()})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusCode(err), gin.H{"error": err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, bridge.ErrNotRelayer),
		errors.Is(err, bridge.ErrNotAdmin),
		errors.Is(err, bridge.ErrUntrustedForwarder):
		return http.StatusForbidden
	case errors.Is(err, bridge.ErrUnknownResource),
		errors.Is(err, store.ErrDepositNotFound),
		errors.Is(err, forwarder.ErrUnknownTarget):
		return http.StatusNotFound
	case errors.Is(err, bridge.ErrAlreadyVoted),
		errors.Is(err, bridge.ErrNotActive),
		errors.Is(err, bridge.ErrNotPassed),
		errors.Is(err, bridge.ErrExpiryNotReached),
		errors.Is(err, bridge.ErrAlreadyExecuted),
		errors.Is(err, forwarder.ErrNonceMismatch):
		return http.StatusConflict
	case errors.Is(err, bridge.ErrInvalidSignature),
		errors.Is(err, bridge.ErrDomainMismatch),
		errors.Is(err, bridge.ErrEmptyProposalsBatch),
		errors.Is(err, bridge.ErrUnknownCall),
		errors.Is(err, fee.ErrIncorrectFee),
		errors.Is(err, authority.ErrInvalidSignature),
		errors.Is(err, forwarder.ErrSignatureMismatch):
		return http.StatusBadRequest
	case errors.Is(err, bridge.ErrHandlerAborted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("latency", fmt.Sprint(time.Since(start))).
			Msg("Handled request")
	}
}
