package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/kitbuilder587/osint-finder/internal/domain"
)

type secretValueGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type AWSProvider struct {
	client secretValueGetter
	prefix string
}

var _ Provider = (*AWSProvider)(nil)

func NewAWSProvider(ctx context.Context, region, prefix string) (*AWSProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newAWSProviderWithClient(secretsmanager.NewFromConfig(cfg), prefix), nil
}

func newAWSProviderWithClient(client secretValueGetter, prefix string) *AWSProvider {
	return &AWSProvider{client: client, prefix: prefix}
}

func (a *AWSProvider) GetSecret(ctx context.Context, key string) (string, error) {
	if a.prefix != "" {
		v, err := a.get(ctx, a.prefix+key)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, domain.ErrSecretNotFound) {
			return "", err
		}
	}
	return a.get(ctx, key)
}

func (a *AWSProvider) get(ctx context.Context, name string) (string, error) {
	out, err := a.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: %s", domain.ErrSecretNotFound, name)
		}
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}

	if out.SecretString == nil || *out.SecretString == "" {
		return "", fmt.Errorf("%w: %s has no string value", domain.ErrSecretNotFound, name)
	}

	return *out.SecretString, nil
}

func (a *AWSProvider) Close() error {
	return nil
}
