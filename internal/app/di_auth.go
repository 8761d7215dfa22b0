package app

import (
	"context"
	"fmt"

	authHTTP "github.com/allisson/linkvault/internal/auth/http"
	authService "github.com/allisson/linkvault/internal/auth/service"
	authUseCase "github.com/allisson/linkvault/internal/auth/usecase"
	mailService "github.com/allisson/linkvault/internal/mail/service"
)

// Mail drivers accepted in MAIL_DRIVER.
const (
	MailDriverLog  = "log"
	MailDriverSMTP = "smtp"
	MailDriverHTTP = "http"
)

// KMSService returns the KMS service used to unwrap the signing secret.
func (c *Container) KMSService() authService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = authService.NewKMSService()
	})
	return c.kmsService
}

// SigningKeys returns the login and session keys derived from AUTH_SIGNING_KEY.
func (c *Container) SigningKeys() (*authService.SigningKeys, error) {
	var err error
	c.signingKeysInit.Do(func() {
		c.signingKeys, err = c.initSigningKeys()
		if err != nil {
			c.initErrors["signingKeys"] = err
		}
	})
	if storedErr, exists := c.initErrors["signingKeys"]; exists {
		return nil, storedErr
	}
	return c.signingKeys, nil
}

// LoginTokenCodec returns the codec for sign-in link tokens.
func (c *Container) LoginTokenCodec() (authService.LoginTokenCodec, error) {
	var err error
	c.loginTokenCodecInit.Do(func() {
		var keys *authService.SigningKeys
		keys, err = c.SigningKeys()
		if err != nil {
			c.initErrors["loginTokenCodec"] = fmt.Errorf("failed to get signing keys for login token codec: %w", err)
			return
		}
		c.loginTokenCodec = authService.NewLoginTokenCodec(
			keys.Login,
			c.config.AuthIssuer,
			c.config.LoginTokenTTL,
			c.Clock(),
		)
	})
	if storedErr, exists := c.initErrors["loginTokenCodec"]; exists {
		return nil, storedErr
	}
	return c.loginTokenCodec, nil
}

// SessionCodec returns the codec for session credentials.
func (c *Container) SessionCodec() (authService.SessionCodec, error) {
	var err error
	c.sessionCodecInit.Do(func() {
		var keys *authService.SigningKeys
		keys, err = c.SigningKeys()
		if err != nil {
			c.initErrors["sessionCodec"] = fmt.Errorf("failed to get signing keys for session codec: %w", err)
			return
		}
		c.sessionCodec = authService.NewSessionCodec(
			keys.Session,
			c.config.AuthIssuer,
			c.config.SessionTTL,
			c.Clock(),
		)
	})
	if storedErr, exists := c.initErrors["sessionCodec"]; exists {
		return nil, storedErr
	}
	return c.sessionCodec, nil
}

// Mailer returns the mail transport selected by MAIL_DRIVER.
func (c *Container) Mailer() (authUseCase.Mailer, error) {
	var err error
	c.mailerInit.Do(func() {
		c.mailer, err = c.initMailer()
		if err != nil {
			c.initErrors["mailer"] = err
		}
	})
	if storedErr, exists := c.initErrors["mailer"]; exists {
		return nil, storedErr
	}
	return c.mailer, nil
}

// MagicLinkUseCase returns the sign-in link use case.
func (c *Container) MagicLinkUseCase() (authUseCase.MagicLinkUseCase, error) {
	var err error
	c.magicLinkUseCaseInit.Do(func() {
		c.magicLinkUseCase, err = c.initMagicLinkUseCase()
		if err != nil {
			c.initErrors["magicLinkUseCase"] = err
		}
	})
	if storedErr, exists := c.initErrors["magicLinkUseCase"]; exists {
		return nil, storedErr
	}
	return c.magicLinkUseCase, nil
}

// SessionUseCase returns the redemption and session check use case.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// RedemptionUseCase returns the ledger maintenance use case.
func (c *Container) RedemptionUseCase() (authUseCase.RedemptionUseCase, error) {
	var err error
	c.redemptionUseCaseInit.Do(func() {
		c.redemptionUseCase, err = c.initRedemptionUseCase()
		if err != nil {
			c.initErrors["redemptionUseCase"] = err
		}
	})
	if storedErr, exists := c.initErrors["redemptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.redemptionUseCase, nil
}

// AuthHandler returns the HTTP handler for the sign-in endpoints.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.initErrors["authHandler"] = err
		}
	})
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

func (c *Container) initSigningKeys() (*authService.SigningKeys, error) {
	secret, err := authService.LoadSigningSecret(
		context.Background(),
		c.KMSService(),
		c.config.AuthSigningKey,
		c.config.KMSKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret: %w", err)
	}
	defer authService.Zero(secret)

	keys, err := authService.DeriveSigningKeys(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing keys: %w", err)
	}
	return keys, nil
}

func (c *Container) initMailer() (authUseCase.Mailer, error) {
	switch c.config.MailDriver {
	case MailDriverLog:
		c.Logger().Warn("using the log mailer; sign-in links are written to the log")
		return mailService.NewLogMailer(c.Logger()), nil
	case MailDriverSMTP:
		return mailService.NewSMTPMailer(mailService.SMTPConfig{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUsername,
			Password: c.config.SMTPPassword,
			From:     c.config.MailFrom,
		}), nil
	case MailDriverHTTP:
		if c.config.MailAPIURL == "" {
			return nil, fmt.Errorf("MAIL_API_URL is required for the %q mail driver", MailDriverHTTP)
		}
		return mailService.NewHTTPMailer(mailService.HTTPConfig{
			URL:     c.config.MailAPIURL,
			APIKey:  c.config.MailAPIKey,
			From:    c.config.MailFrom,
			Timeout: c.config.MailTimeout,
		}, c.Logger()), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver: %s", c.config.MailDriver)
	}
}

func (c *Container) initMagicLinkUseCase() (authUseCase.MagicLinkUseCase, error) {
	codec, err := c.LoginTokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get login token codec for magic link use case: %w", err)
	}
	mailer, err := c.Mailer()
	if err != nil {
		return nil, fmt.Errorf("failed to get mailer for magic link use case: %w", err)
	}

	baseUseCase, err := authUseCase.NewMagicLinkUseCase(authUseCase.MagicLinkConfig{
		BaseURL:      c.config.PublicBaseURL,
		CallbackPath: c.config.AuthCallbackPath,
		SiteName:     c.config.MailSiteName,
		MailTimeout:  c.config.MailTimeout,
	}, codec, mailer, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create magic link use case: %w", err)
	}

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for magic link use case: %w", err)
		}
		return authUseCase.NewMagicLinkUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}
	return baseUseCase, nil
}

func (c *Container) initSessionUseCase() (authUseCase.SessionUseCase, error) {
	loginCodec, err := c.LoginTokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get login token codec for session use case: %w", err)
	}
	sessionCodec, err := c.SessionCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get session codec for session use case: %w", err)
	}
	ledger, err := c.RedemptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption repository for session use case: %w", err)
	}

	baseUseCase := authUseCase.NewSessionUseCase(loginCodec, sessionCodec, ledger, c.Clock(), c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
		}
		return authUseCase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}
	return baseUseCase, nil
}

func (c *Container) initRedemptionUseCase() (authUseCase.RedemptionUseCase, error) {
	ledger, err := c.RedemptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption repository for redemption use case: %w", err)
	}

	baseUseCase := authUseCase.NewRedemptionUseCase(ledger, c.Clock(), c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for redemption use case: %w", err)
		}
		return authUseCase.NewRedemptionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}
	return baseUseCase, nil
}

func (c *Container) initAuthHandler() (*authHTTP.AuthHandler, error) {
	magicLinkUseCase, err := c.MagicLinkUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get magic link use case for auth handler: %w", err)
	}
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for auth handler: %w", err)
	}

	return authHTTP.NewAuthHandler(
		magicLinkUseCase,
		sessionUseCase,
		authHTTP.CookieConfig{
			Name:   c.config.SessionCookieName,
			Domain: c.config.SessionCookieDomain,
			Secure: c.config.SessionCookieSecure,
		},
		c.config.AuthRedirectURL,
		c.Clock(),
		c.Logger(),
	), nil
}
