// Package sftpclient uploads export files to an SFTP server.
package sftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

type Config struct {
	Host                  string
	Port                  int
	User                  string
	Pass                  string
	RemoteDir             string
	KnownHostsFile        string
	InsecureIgnoreHostKey bool
}

func (cfg Config) withDefaults() Config {
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}
	return cfg
}

func (cfg Config) validate() error {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return errors.New("sftp: missing SFTP_HOST / SFTP_USER / SFTP_PASS")
	}
	return nil
}

// hostKeyCallback verifies the server against a known_hosts file. Skipping
// the check has to be requested explicitly.
func (cfg Config) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if cfg.KnownHostsFile != "" {
		cb, err := knownhosts.New(cfg.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("sftp: known_hosts: %w", err)
		}
		return cb, nil
	}
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	return nil, errors.New("sftp: no known_hosts file configured, set SFTP_KNOWN_HOSTS or SFTP_INSECURE_IGNORE_HOST_KEY")
}

// UploadFile copies a local file to cfg.RemoteDir/remoteFileName.
func UploadFile(ctx context.Context, cfg Config, localPath string, remoteFileName string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()
	return UploadReader(ctx, cfg, src, remoteFileName)
}

// UploadReader streams r to cfg.RemoteDir/remoteFileName.
func UploadReader(ctx context.Context, cfg Config, r io.Reader, remoteFileName string) error {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}
	cb, err := cfg.hostKeyCallback()
	if err != nil {
		return err
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         20 * time.Second,
	}
	sshClient, err := dial(ctx, fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), sshCfg)
	if err != nil {
		return err
	}
	defer sshClient.Close()

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer sftpCli.Close()

	return Upload(sftpCli, cfg.RemoteDir, remoteFileName, r)
}

// dial connects in the background so ctx can cancel a hanging handshake.
func dial(ctx context.Context, addr string, sshCfg *ssh.ClientConfig) (*ssh.Client, error) {
	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		return r.client, nil
	}
}

// Upload writes r to dir/name on an open session, creating dir as needed.
func Upload(cli *sftp.Client, dir, name string, r io.Reader) error {
	if name == "" || path.Base(name) != name {
		return fmt.Errorf("sftp: invalid remote file name %q", name)
	}
	if err := cli.MkdirAll(dir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", dir, err)
	}

	remotePath := path.Join(dir, name)
	dst, err := cli.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create remote file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return fmt.Errorf("sftp: upload copy: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("sftp: close remote file: %w", err)
	}
	return nil
}
