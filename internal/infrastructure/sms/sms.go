package sms

import (
	"context"
	"fmt"

	"github.com/aliyun/alibaba-cloud-sdk-go/services/dysmsapi"
	"github.com/litblc/account-service/internal/domain"
	"github.com/litblc/account-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

// successCode is the sentinel the provider returns on accepted sends.
const successCode = "OK"

// Service sends verification codes through Alibaba Cloud SMS.
type Service struct {
	client       *dysmsapi.Client
	signName     string
	templateCode string
	log          *zap.Logger
}

func NewService(cfg *config.Config, log *zap.Logger) (*Service, error) {
	client, err := dysmsapi.NewClientWithAccessKey(
		cfg.SMSRegion,
		cfg.SMSAccessKeyID,
		cfg.SMSAccessKeySecret,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sms client: %w", err)
	}

	return &Service{
		client:       client,
		signName:     cfg.SMSSignName,
		templateCode: cfg.SMSTemplateCode,
		log:          log,
	}, nil
}

// SendCode delivers a verification code. Anything but the provider's
// success sentinel becomes a *domain.DeliveryError carrying the provider
// message, which is surfaced verbatim to the end user.
func (s *Service) SendCode(ctx context.Context, mobile, code string) error {
	request := dysmsapi.CreateSendSmsRequest()
	request.Scheme = "https"
	request.PhoneNumbers = mobile
	request.SignName = s.signName
	request.TemplateCode = s.templateCode
	request.TemplateParam = fmt.Sprintf(`{"code":"%s"}`, code)

	resp, err := s.client.SendSms(request)
	if err != nil {
		s.log.Error("sms send failed", zap.Error(err))
		return &domain.DeliveryError{Reason: err.Error()}
	}

	if resp.Code != successCode {
		s.log.Error("sms rejected by provider",
			zap.String("code", resp.Code),
			zap.String("message", resp.Message))
		return &domain.DeliveryError{Reason: resp.Message}
	}

	return nil
}
