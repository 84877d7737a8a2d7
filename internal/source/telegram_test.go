package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

const telegramExport = `<!DOCTYPE html>
<html><body><div class="page_body chat_page"><div class="history">
 <div class="message service" id="message1">
  <div class="body details">1 July 2024</div>
 </div>
 <div class="message default clearfix" id="message2">
  <div class="body">
   <div class="pull_right date details" title="01.07.2024 12:30:15">12:30</div>
   <div class="text">Апарт-отель «Морская резиденция» в Сочи<br>Апартаменты от 5 млн рублей, площадью 28 кв.м, доходность 12% годовых</div>
   <div class="media_wrap clearfix">
    <a class="photo_wrap clearfix pull_left" href="photos/photo_1.jpg"><img class="photo" src="photos/photo_1.jpg"></a>
   </div>
  </div>
 </div>
 <div class="message default clearfix" id="message3">
  <div class="body">
   <div class="pull_right date details" title="02.07.2024 09:00:00">09:00</div>
   <div class="text">ok</div>
  </div>
 </div>
</div></div></body></html>`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTelegramReader_Read(t *testing.T) {
	path := writeFixture(t, "messages.html", telegramExport)

	batch, err := (&TelegramReader{}).Read(path)
	require.NoError(t, err)

	// The service message and the trivial "ok" message are not listings.
	require.Len(t, batch.Records, 1)
	rec := batch.Records[0]

	assert.Equal(t, "telegram:2", rec.SourceID)
	assert.Equal(t, model.SourceTelegram, rec.Source)
	assert.Contains(t, rec.Body, "Морская резиденция")
	assert.Contains(t, rec.Body, "\n", "br boundaries survive as newlines")
	assert.Equal(t, []string{"photos/photo_1.jpg"}, rec.Photos)

	require.NotNil(t, rec.SourceDate)
	assert.Equal(t, "2024-07-01 12:30:15", rec.SourceDate.Format("2006-01-02 15:04:05"))
}

func TestTelegramReader_MissingFile(t *testing.T) {
	_, err := (&TelegramReader{}).Read(filepath.Join(t.TempDir(), "absent.html"))
	assert.Error(t, err)
}

func TestTelegramReader_PhotoOnlyMessageKept(t *testing.T) {
	export := `<html><body>
 <div class="message default" id="message7">
  <div class="body">
   <div class="media_wrap"><a class="photo_wrap" href="photos/p.jpg"><img class="photo" src="photos/p.jpg"></a></div>
  </div>
 </div>
</body></html>`
	path := writeFixture(t, "messages.html", export)

	batch, err := (&TelegramReader{}).Read(path)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, []string{"photos/p.jpg"}, batch.Records[0].Photos)
	assert.Nil(t, batch.Records[0].SourceDate)
}
