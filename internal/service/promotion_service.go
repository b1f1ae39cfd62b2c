package service

import (
	"errors"
	"strings"
	"time"

	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/metrics"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromotionService 折扣/优惠券校验与使用台账
type PromotionService struct {
	promotionRepo repository.PromotionRepository
	usageRepo     repository.PromotionUsageRepository
	now           func() time.Time
}

// NewPromotionService 创建优惠服务
func NewPromotionService(promotionRepo repository.PromotionRepository, usageRepo repository.PromotionUsageRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		usageRepo:     usageRepo,
		now:           time.Now,
	}
}

// PromotionLine 参与优惠计算的订单行
type PromotionLine struct {
	ProductID   uint
	ShopID      uint
	CategoryIDs []uint
	LineTotal   models.Money
}

// OrderContext 优惠校验上下文
type OrderContext struct {
	UserID   uint
	Subtotal models.Money
	Lines    []PromotionLine
}

// PromotionEvaluation 校验通过后的优惠结果
type PromotionEvaluation struct {
	Kind   constants.PromotionKind `json:"kind"`
	Rule   *models.PromotionRule   `json:"rule"`
	Base   models.Money            `json:"base"`
	Amount models.Money            `json:"amount"`
}

// EvaluatePromotion 按顺序校验优惠（存在/有效期/门槛/总上限/每人上限/范围）并计算优惠金额
func (s *PromotionService) EvaluatePromotion(code string, kind constants.PromotionKind, oc OrderContext) (*PromotionEvaluation, error) {
	evaluation, err := s.evaluate(code, kind, oc)
	if err != nil {
		metrics.PromotionRejectedTotal.WithLabelValues(string(kind), string(KindOf(err))).Inc()
		return nil, err
	}
	return evaluation, nil
}

func (s *PromotionService) evaluate(code string, kind constants.PromotionKind, oc OrderContext) (*PromotionEvaluation, error) {
	if kind != constants.PromotionKindDiscount && kind != constants.PromotionKindCoupon {
		return nil, ErrInvalidPromotionKind
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &PromotionError{Err: ErrPromotionNotFound, Kind: kind}
	}

	rule, err := s.promotionRepo.GetByCode(kind, code)
	if err != nil {
		return nil, err
	}
	if rule == nil || !rule.IsActive {
		return nil, &PromotionError{Err: ErrPromotionNotFound, Kind: kind, Code: code}
	}

	now := s.now()
	if rule.StartDate != nil && now.Before(*rule.StartDate) {
		return nil, &PromotionError{Err: ErrPromotionExpired, Kind: kind, Code: code}
	}
	if rule.EndDate != nil && now.After(*rule.EndDate) {
		return nil, &PromotionError{Err: ErrPromotionExpired, Kind: kind, Code: code}
	}

	subtotal := oc.subtotal()
	if subtotal.Decimal.LessThan(rule.MinOrderValue.Decimal) {
		return nil, &PromotionError{
			Err:           ErrPromotionMinOrderNotMet,
			Kind:          kind,
			Code:          code,
			MinOrderValue: rule.MinOrderValue,
			Subtotal:      subtotal,
		}
	}

	if rule.MaxUses > 0 && rule.UsedCount >= rule.MaxUses {
		return nil, &PromotionError{
			Err:          ErrPromotionUsageLimit,
			Kind:         kind,
			Code:         code,
			CurrentUsage: rule.UsedCount,
			Limit:        rule.MaxUses,
		}
	}

	if rule.MaxUsesPerUser > 0 && oc.UserID != 0 {
		used, err := s.usageRepo.CountByUser(kind, rule.ID, oc.UserID)
		if err != nil {
			return nil, err
		}
		if used >= rule.MaxUsesPerUser {
			return nil, &PromotionError{
				Err:          ErrPromotionUsageLimit,
				Kind:         kind,
				Code:         code,
				CurrentUsage: used,
				Limit:        rule.MaxUsesPerUser,
			}
		}
	}

	base := subtotal
	if kind == constants.PromotionKindCoupon && rule.HasScope() {
		eligible, ok := eligibleSubtotal(rule, oc.Lines)
		if !ok {
			return nil, &PromotionError{Err: ErrPromotionScopeMismatch, Kind: kind, Code: code}
		}
		base = eligible
	}

	return &PromotionEvaluation{
		Kind:   kind,
		Rule:   rule,
		Base:   base,
		Amount: computePromotionAmount(rule, base),
	}, nil
}

// RecordUsage 在事务内原子记录一次使用：总计数与用户计数均以条件更新保护
func (s *PromotionService) RecordUsage(tx *gorm.DB, kind constants.PromotionKind, rule *models.PromotionRule, userID uint) error {
	if rule == nil || rule.ID == 0 {
		return ErrPromotionNotFound
	}
	promotionRepo := s.promotionRepo.WithTx(tx)
	rows, err := promotionRepo.IncrementUsed(kind, rule.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		current := rule.UsedCount
		if latest, err := promotionRepo.GetByID(kind, rule.ID); err == nil && latest != nil {
			current = latest.UsedCount
		}
		return &PromotionError{
			Err:          ErrPromotionUsageLimit,
			Kind:         kind,
			Code:         rule.Code,
			CurrentUsage: current,
			Limit:        rule.MaxUses,
		}
	}
	if userID == 0 {
		return nil
	}

	usageRepo := s.usageRepo.WithTx(tx)
	rows, err = usageRepo.IncrementBelow(kind, rule.ID, userID, rule.MaxUsesPerUser)
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	existing, err := usageRepo.Get(kind, rule.ID, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return perUserLimitError(kind, rule, existing.UseCount)
	}
	insertErr := usageRepo.Insert(&models.PromotionUsage{
		PromotionKind: string(kind),
		PromotionID:   rule.ID,
		UserID:        userID,
		UseCount:      1,
	})
	if insertErr == nil {
		return nil
	}
	if !isUniqueViolation(insertErr) {
		return insertErr
	}
	// 并发插入冲突：对方已建行，重新走条件累加
	rows, err = usageRepo.IncrementBelow(kind, rule.ID, userID, rule.MaxUsesPerUser)
	if err != nil {
		return err
	}
	if rows == 0 {
		return perUserLimitError(kind, rule, rule.MaxUsesPerUser)
	}
	return nil
}

// ReverseUsage 在事务内回退一次使用，计数归零时删除用户记录
func (s *PromotionService) ReverseUsage(tx *gorm.DB, kind constants.PromotionKind, promotionID uint, userID uint) error {
	if promotionID == 0 {
		return nil
	}
	if _, err := s.promotionRepo.WithTx(tx).DecrementUsed(kind, promotionID); err != nil {
		return err
	}
	if userID == 0 {
		return nil
	}
	usageRepo := s.usageRepo.WithTx(tx)
	if _, err := usageRepo.Decrement(kind, promotionID, userID); err != nil {
		return err
	}
	return usageRepo.DeleteEmpty(kind, promotionID, userID)
}

// UsageHistory 返回使用台账 user_id → 次数
func (s *PromotionService) UsageHistory(kind constants.PromotionKind, promotionID uint) (map[uint]int, error) {
	if kind != constants.PromotionKindDiscount && kind != constants.PromotionKindCoupon {
		return nil, ErrInvalidPromotionKind
	}
	usages, err := s.usageRepo.ListByPromotion(kind, promotionID)
	if err != nil {
		return nil, err
	}
	history := make(map[uint]int, len(usages))
	for _, usage := range usages {
		if usage.UseCount > 0 {
			history[usage.UserID] = usage.UseCount
		}
	}
	return history, nil
}

// CreatePromotion 创建折扣或优惠券
func (s *PromotionService) CreatePromotion(kind constants.PromotionKind, rule *models.PromotionRule) error {
	if kind != constants.PromotionKindDiscount && kind != constants.PromotionKindCoupon {
		return ErrInvalidPromotionKind
	}
	if rule == nil {
		return ErrInvalidPrice
	}
	rule.Code = strings.TrimSpace(rule.Code)
	if rule.Code == "" {
		return ErrInvalidPromotionCode
	}
	if !rule.Value.Decimal.IsPositive() || rule.MinOrderValue.Decimal.IsNegative() || rule.MaxDiscountValue.Decimal.IsNegative() {
		return ErrInvalidPrice
	}
	switch rule.Type {
	case constants.PromotionTypeFixed:
	case constants.PromotionTypePercentage:
		if rule.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidPrice
		}
	default:
		return ErrInvalidPromotionKind
	}
	if rule.MaxUses < 0 || rule.MaxUsesPerUser < 0 {
		return ErrInvalidQuantity
	}
	if rule.StartDate != nil && rule.EndDate != nil && rule.EndDate.Before(*rule.StartDate) {
		return ErrPromotionExpired
	}
	rule.UsedCount = 0
	return s.promotionRepo.Create(kind, rule)
}

func perUserLimitError(kind constants.PromotionKind, rule *models.PromotionRule, current int) error {
	return &PromotionError{
		Err:          ErrPromotionUsageLimit,
		Kind:         kind,
		Code:         rule.Code,
		CurrentUsage: current,
		Limit:        rule.MaxUsesPerUser,
	}
}

func (oc OrderContext) subtotal() models.Money {
	if !oc.Subtotal.Decimal.IsZero() || len(oc.Lines) == 0 {
		return oc.Subtotal
	}
	total := models.ZeroMoney()
	for _, line := range oc.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

// eligibleSubtotal 范围匹配为全有或全无：任一行不匹配即整体拒绝
func eligibleSubtotal(rule *models.PromotionRule, lines []PromotionLine) (models.Money, bool) {
	if len(lines) == 0 {
		return models.Money{}, false
	}
	total := models.ZeroMoney()
	for _, line := range lines {
		if !lineInScope(rule, line) {
			return models.Money{}, false
		}
		total = total.Add(line.LineTotal)
	}
	return total, true
}

func lineInScope(rule *models.PromotionRule, line PromotionLine) bool {
	if rule.ProductID != 0 && line.ProductID != rule.ProductID {
		return false
	}
	if rule.ShopID != 0 && line.ShopID != rule.ShopID {
		return false
	}
	if rule.CategoryID != 0 {
		matched := false
		for _, id := range line.CategoryIDs {
			if id == rule.CategoryID {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// computePromotionAmount 固定金额不超过基数；百分比按封顶值与基数截断
func computePromotionAmount(rule *models.PromotionRule, base models.Money) models.Money {
	if base.Decimal.LessThanOrEqual(decimal.Zero) {
		return models.ZeroMoney()
	}
	var amount decimal.Decimal
	switch rule.Type {
	case constants.PromotionTypeFixed:
		amount = rule.Value.Decimal
	case constants.PromotionTypePercentage:
		amount = base.Decimal.Mul(rule.Value.Decimal).Div(decimal.NewFromInt(100))
		if rule.MaxDiscountValue.Decimal.GreaterThan(decimal.Zero) && amount.GreaterThan(rule.MaxDiscountValue.Decimal) {
			amount = rule.MaxDiscountValue.Decimal
		}
	default:
		return models.ZeroMoney()
	}
	if amount.GreaterThan(base.Decimal) {
		amount = base.Decimal
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(amount)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
