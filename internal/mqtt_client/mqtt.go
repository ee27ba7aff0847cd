// Package mqtt_client подключение к брокеру и подписка на кадры ЭКГ.
// Аппарат публикует по одному кадру в сообщении в топик
// medical/ecg/frames/{deviceID}.
package mqtt_client

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"ECG_monitor/configs"
)

// FrameTopic шаблон подписки на кадры всех устройств
const FrameTopic = "medical/ecg/frames/#"

// FrameHandler получает сырую строку кадра
type FrameHandler func(line string)

// InitClient подключается к брокеру и подписывается на кадры.
// Ошибка подключения фатальна для сбора, переподключение после
// успешного старта берёт на себя клиент.
func InitClient(cfg configs.MQTTConfig, handler FrameHandler) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)

	opts.OnConnect = func(client mqtt.Client) {
		log.Println("📡 Подключены к MQTT брокеру")
		token := client.Subscribe(FrameTopic, byte(cfg.QoS), func(c mqtt.Client, msg mqtt.Message) {
			handler(string(msg.Payload()))
		})
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("❌ Ошибка подписки на %s: %v", FrameTopic, err)
			return
		}
		log.Printf("✅ Подписаны на топик: %s", FrameTopic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("⚠️ Соединение с MQTT потеряно: %v", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("подключение к MQTT: %w", token.Error())
	}
	return client, nil
}

// PublishTopic топик публикации кадров конкретного устройства
func PublishTopic(deviceID string) string {
	return fmt.Sprintf("medical/ecg/frames/%s", deviceID)
}
